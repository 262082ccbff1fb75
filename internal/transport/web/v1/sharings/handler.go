package sharings

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/sharing"
	"github.com/kln-se/uml-diagrams/internal/transport/web/logx"
	"github.com/kln-se/uml-diagrams/internal/transport/web/mw"
	v1 "github.com/kln-se/uml-diagrams/internal/transport/web/v1"
)

// Handler — вьюсет записей шаринга: владелец управляет грантами
// своих диаграмм, админ видит все.
type Handler struct {
	Log     *log.Logger
	Sharing *sharing.Service
	Cache   domain.Cache
}

func collaboratorIDFromPath(r *http.Request) (domain.CollaboratorID, error) {
	return uuid.Parse(r.PathValue("id"))
}

// List godoc
// @Summary     List sharing records
// @Description Гранты диаграмм владельца; для админа — все записи.
// @Tags        sharings
// @Produce     json
// @Security    BearerAuth
// @Param       limit  query int false "page size"
// @Param       offset query int false "page offset"
// @Success     200 {array} domain.CollaboratorInfo
// @Failure     401 {object} v1.DetailResponse
// @Router      /sharings [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "sharings.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	items, err := h.Sharing.List(r.Context(), actor, v1.PageFromRequest(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err, "user_id", actor.ID)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, r, http.StatusOK, items)
}

// GetOne godoc
// @Summary     Get sharing record
// @Tags        sharings
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "collaborator id"
// @Success     200 {object} domain.CollaboratorInfo
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /sharings/{id} [get]
func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	const op = "sharings.get_one"
	reqID := mw.RequestIDFromCtx(r.Context())

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	id, err := collaboratorIDFromPath(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	ci, err := h.Sharing.Get(r.Context(), actor, id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "get failed", err, "collaborator_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, r, http.StatusOK, ci)
}

type updateRequest struct {
	PermissionLevel string `json:"permission_level"`
}

// Update godoc
// @Summary     Change grant permission level
// @Description Публичный грант менять нельзя (он всегда view-only).
// @Tags        sharings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "collaborator id"
// @Param       request body updateRequest true "permission_level"
// @Success     200 {object} domain.CollaboratorInfo
// @Failure     400 {object} v1.DetailResponse
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /sharings/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "sharings.update"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	id, err := collaboratorIDFromPath(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	level, err := domain.ParsePermissionLevel(req.PermissionLevel)
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad permission level", err, "level", req.PermissionLevel)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	ci, err := h.Sharing.UpdatePermission(r.Context(), actor, id, level)
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "collaborator_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "collaborator_id", id, "level", ci.PermissionLevel)
	v1.WriteJSON(w, r, http.StatusOK, ci)
}

// Delete godoc
// @Summary     Delete sharing record
// @Tags        sharings
// @Security    BearerAuth
// @Param       id path string true "collaborator id"
// @Success     204
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /sharings/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "sharings.delete"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	id, err := collaboratorIDFromPath(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	removed, err := h.Sharing.Remove(r.Context(), actor, id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "delete failed", err, "collaborator_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	// удалили публичный грант — диаграмма больше не должна отдаваться анонимно
	if removed.SharedTo.IsPublic() {
		_ = h.Cache.Del(r.Context(), domain.CacheKeyPublicDiagram(removed.DiagramID))
	}

	logx.Info(h.Log, reqID, op, "ok", "collaborator_id", id)
	v1.WriteNoContent(w, r)
}
