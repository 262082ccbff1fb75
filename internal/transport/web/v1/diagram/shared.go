package diagram

import (
	"encoding/json"
	"net/http"

	"github.com/kln-se/uml-diagrams/internal/diagrams"
	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/transport/web/logx"
	"github.com/kln-se/uml-diagrams/internal/transport/web/mw"
	v1 "github.com/kln-se/uml-diagrams/internal/transport/web/v1"
)

// SharedList godoc
// @Summary     Diagrams shared with me
// @Description Список диаграмм с персональным грантом актору, аннотирован уровнем доступа.
// @Tags        shared
// @Produce     json
// @Security    BearerAuth
// @Param       limit  query int false "page size"
// @Param       offset query int false "page offset"
// @Success     200 {array} domain.SharedDiagramItem
// @Failure     401 {object} v1.DetailResponse
// @Router      /diagrams/shared-with-me [get]
func (h *Handler) SharedList(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.shared_list"
	reqID := mw.RequestIDFromCtx(r.Context())

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	items, err := h.Diagrams.SharedList(r.Context(), actor, v1.PageFromRequest(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err, "user_id", actor.ID)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, r, http.StatusOK, items)
}

// SharedGet godoc
// @Summary     Get diagram shared with me
// @Description Требуется персональный грант любого уровня; иначе 404.
// @Tags        shared
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "diagram id"
// @Success     200 {object} domain.Diagram
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /diagrams/shared-with-me/{id} [get]
func (h *Handler) SharedGet(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.shared_get"
	reqID := mw.RequestIDFromCtx(r.Context())

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	id, err := diagramIDFromPath(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	d, err := h.Diagrams.SharedGet(r.Context(), actor, id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "get failed", err, "diagram_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, r, http.StatusOK, d)
}

// SharedCopy godoc
// @Summary     Copy diagram shared with me
// @Description Требуется уровень view-copy или выше; view-only — 403.
// @Tags        shared
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "diagram id"
// @Param       request body copyRequest false "description override"
// @Success     201 {object} domain.Diagram
// @Failure     401 {object} v1.DetailResponse
// @Failure     403 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /diagrams/shared-with-me/{id}/copy [post]
func (h *Handler) SharedCopy(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.shared_copy"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	id, err := diagramIDFromPath(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	req, err := decodeCopyRequest(r)
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	d, err := h.Diagrams.SharedCopy(r.Context(), actor, id, req.Description)
	if err != nil {
		logx.Error(h.Log, reqID, op, "copy failed", err, "diagram_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "src_id", id, "copy_id", d.ID)
	v1.WriteJSON(w, r, http.StatusCreated, d)
}

type sharedSaveRequest struct {
	JSON        json.RawMessage `json:"json"`
	Description *string         `json:"description"`
}

// SharedSave godoc
// @Summary     Save edits into diagram shared with me
// @Description Требуется уровень view-edit. Меняются только json и description.
// @Tags        shared
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "diagram id"
// @Param       request body sharedSaveRequest true "json, description"
// @Success     200 {object} domain.Diagram
// @Failure     400 {object} v1.DetailResponse
// @Failure     401 {object} v1.DetailResponse
// @Failure     403 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /diagrams/shared-with-me/{id}/save [patch]
func (h *Handler) SharedSave(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.shared_save"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	id, err := diagramIDFromPath(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	var req sharedSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	d, err := h.Diagrams.SharedSave(r.Context(), actor, id, diagrams.SaveInput{
		JSON:        req.JSON,
		Description: req.Description,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "save failed", err, "diagram_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	// правки видны и в публичной версии
	h.dropPublicCache(r, id)

	logx.Info(h.Log, reqID, op, "ok", "diagram_id", d.ID)
	v1.WriteJSON(w, r, http.StatusOK, d)
}

// UnshareMe godoc
// @Summary     Remove my grant on a shared diagram
// @Description Адресат отказывается от гранта; без гранта — 404.
// @Tags        shared
// @Security    BearerAuth
// @Param       id path string true "diagram id"
// @Success     204
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /diagrams/shared-with-me/{id}/unshare-me [delete]
func (h *Handler) UnshareMe(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.unshare_me"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	id, err := diagramIDFromPath(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	if err := h.Sharing.UnshareSelf(r.Context(), actor, id); err != nil {
		logx.Error(h.Log, reqID, op, "unshare failed", err, "diagram_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "diagram_id", id, "user_id", actor.ID)
	v1.WriteNoContent(w, r)
}
