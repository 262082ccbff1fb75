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

// List godoc
// @Summary     List my diagrams
// @Description Владелец видит свои диаграммы, админ — все. Каждая аннотирована is_public.
// @Tags        diagrams
// @Produce     json
// @Security    BearerAuth
// @Param       limit  query int false "page size"
// @Param       offset query int false "page offset"
// @Success     200 {array} domain.DiagramListItem
// @Failure     401 {object} v1.DetailResponse
// @Router      /diagrams [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	items, err := h.Diagrams.List(r.Context(), actor, v1.PageFromRequest(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err, "user_id", actor.ID)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, r, http.StatusOK, items)
}

type createRequest struct {
	Title       string          `json:"title"`
	JSON        json.RawMessage `json:"json"`
	Description string          `json:"description"`
	OwnerID     *domain.UserID  `json:"owner_id"` // учитывается только для админа
}

// Create godoc
// @Summary     Create diagram
// @Tags        diagrams
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body createRequest true "title, json, description"
// @Success     201 {object} domain.Diagram
// @Failure     400 {object} v1.DetailResponse
// @Failure     401 {object} v1.DetailResponse
// @Router      /diagrams [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	d, err := h.Diagrams.Create(r.Context(), actor, diagrams.CreateInput{
		Title:       req.Title,
		JSON:        req.JSON,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "create failed", err, "user_id", actor.ID)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "diagram_id", d.ID, "user_id", actor.ID)
	v1.WriteJSON(w, r, http.StatusCreated, d)
}

// GetOne godoc
// @Summary     Get own diagram
// @Description Доступно владельцу и админу; остальным — 404.
// @Tags        diagrams
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "diagram id"
// @Success     200 {object} domain.Diagram
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /diagrams/{id} [get]
func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.get_one"
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

	d, err := h.Diagrams.Get(r.Context(), actor, id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "get failed", err, "diagram_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, r, http.StatusOK, d)
}

type updateRequest struct {
	Title       *string         `json:"title"`
	JSON        json.RawMessage `json:"json"`
	Description *string         `json:"description"`
	OwnerID     *domain.UserID  `json:"owner_id"` // переназначение — только админ
}

// Update godoc
// @Summary     Update own diagram
// @Description Частичное обновление; nil-поля не трогаются.
// @Tags        diagrams
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "diagram id"
// @Param       request body updateRequest true "partial fields"
// @Success     200 {object} domain.Diagram
// @Failure     400 {object} v1.DetailResponse
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /diagrams/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.update"
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

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	d, err := h.Diagrams.Update(r.Context(), actor, id, diagrams.UpdateInput{
		Title:       req.Title,
		JSON:        req.JSON,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "diagram_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	// публичная копия в кэше устарела
	h.dropPublicCache(r, id)

	logx.Info(h.Log, reqID, op, "ok", "diagram_id", d.ID)
	v1.WriteJSON(w, r, http.StatusOK, d)
}

// Delete godoc
// @Summary     Delete own diagram
// @Description Каскадно удаляет записи шаринга (FK в БД) и превью в S3.
// @Tags        diagrams
// @Security    BearerAuth
// @Param       id path string true "diagram id"
// @Success     204
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /diagrams/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.delete"
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

	if err := h.Diagrams.Delete(r.Context(), actor, id); err != nil {
		logx.Error(h.Log, reqID, op, "delete failed", err, "diagram_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	// объект мог и не существовать, это не ошибка
	_ = h.Storage.Delete(r.Context(), domain.ThumbnailKey(id))
	h.dropPublicCache(r, id)

	logx.Info(h.Log, reqID, op, "ok", "diagram_id", id)
	v1.WriteNoContent(w, r)
}
