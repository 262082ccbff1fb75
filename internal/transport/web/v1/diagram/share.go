package diagram

import (
	"encoding/json"
	"net/http"

	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/transport/web/logx"
	"github.com/kln-se/uml-diagrams/internal/transport/web/mw"
	v1 "github.com/kln-se/uml-diagrams/internal/transport/web/v1"
)

type inviteRequest struct {
	UserEmail       string `json:"user_email"`
	PermissionLevel string `json:"permission_level"`
}

// ShareInviteUser godoc
// @Summary     Share diagram with a user
// @Description Выдаёт персональный грант по email. Самошаринг и повторный грант — 400.
// @Tags        sharing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "diagram id"
// @Param       request body inviteRequest true "user_email, permission_level"
// @Success     201 {object} domain.CollaboratorInfo
// @Failure     400 {object} v1.DetailResponse
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /diagrams/{id}/share-invite-user [post]
func (h *Handler) ShareInviteUser(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.share_invite_user"
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

	var req inviteRequest
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

	ci, err := h.Sharing.Invite(r.Context(), actor, id, req.UserEmail, level)
	if err != nil {
		logx.Error(h.Log, reqID, op, "invite failed", err, "diagram_id", id, "email", req.UserEmail)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "diagram_id", id, "collaborator_id", ci.ID, "level", ci.PermissionLevel)
	v1.WriteJSON(w, r, http.StatusCreated, ci)
}

// ShareUnshareAll godoc
// @Summary     Remove all sharings of a diagram
// @Description Снимает все гранты, включая публичный. Идемпотентно.
// @Tags        sharing
// @Security    BearerAuth
// @Param       id path string true "diagram id"
// @Success     204
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /diagrams/{id}/share-unshare-all [delete]
func (h *Handler) ShareUnshareAll(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.share_unshare_all"
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

	if err := h.Sharing.RemoveAll(r.Context(), actor, id); err != nil {
		logx.Error(h.Log, reqID, op, "unshare all failed", err, "diagram_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	h.dropPublicCache(r, id)

	logx.Info(h.Log, reqID, op, "ok", "diagram_id", id)
	v1.WriteNoContent(w, r)
}

// ShareSetPublic godoc
// @Summary     Share diagram publicly
// @Description Публичный грант всегда view-only. Повторный вызов — 400.
// @Tags        sharing
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "diagram id"
// @Success     201 {object} domain.Collaborator
// @Failure     400 {object} v1.DetailResponse
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /diagrams/{id}/share-set-public [post]
func (h *Handler) ShareSetPublic(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.share_set_public"
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

	c, err := h.Sharing.SetPublic(r.Context(), actor, id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "set public failed", err, "diagram_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "diagram_id", id, "collaborator_id", c.ID)
	v1.WriteJSON(w, r, http.StatusCreated, c)
}

// ShareSetPrivate godoc
// @Summary     Revoke public sharing
// @Description Снимает только публичный грант, персональные остаются. Идемпотентно.
// @Tags        sharing
// @Security    BearerAuth
// @Param       id path string true "diagram id"
// @Success     204
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /diagrams/{id}/share-set-private [post]
func (h *Handler) ShareSetPrivate(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.share_set_private"
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

	if err := h.Sharing.SetPrivate(r.Context(), actor, id); err != nil {
		logx.Error(h.Log, reqID, op, "set private failed", err, "diagram_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	h.dropPublicCache(r, id)

	logx.Info(h.Log, reqID, op, "ok", "diagram_id", id)
	v1.WriteNoContent(w, r)
}
