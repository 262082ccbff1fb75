package diagram

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/transport/web/logx"
	"github.com/kln-se/uml-diagrams/internal/transport/web/mw"
	v1 "github.com/kln-se/uml-diagrams/internal/transport/web/v1"
)

// ThumbnailPut godoc
// @Summary     Upload diagram thumbnail
// @Description Превью (PNG) кладётся в объектное хранилище; повторная загрузка перезаписывает.
// @Tags        diagrams
// @Accept      png
// @Security    BearerAuth
// @Param       id path string true "diagram id"
// @Success     204
// @Failure     400 {object} v1.DetailResponse
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /thumbnails/{id} [put]
func (h *Handler) ThumbnailPut(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.thumbnail_put"
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

	// загрузка разрешена только владельцу (или админу)
	if _, err := h.Diagrams.Get(r.Context(), actor, id); err != nil {
		logx.Error(h.Log, reqID, op, "access denied", err, "diagram_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	ct := r.Header.Get("Content-Type")
	if ct == "" {
		ct = "image/png"
	}
	if r.ContentLength <= 0 {
		logx.Error(h.Log, reqID, op, "empty body", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	key := domain.ThumbnailKey(id)
	if err := h.Storage.Put(r.Context(), key, r.Body, r.ContentLength, ct); err != nil {
		logx.Error(h.Log, reqID, op, "storage put failed", err, "key", key)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "diagram_id", id, "size", r.ContentLength)
	v1.WriteNoContent(w, r)
}

// ThumbnailGet godoc
// @Summary     Download diagram thumbnail
// @Description Доступно всем, кто видит диаграмму: владельцу, адресатам грантов, всем при публичном гранте.
// @Tags        diagrams
// @Produce     png
// @Param       id path string true "diagram id"
// @Success     200 {file} []byte
// @Failure     404 {object} v1.DetailResponse
// @Router      /thumbnails/{id} [get]
func (h *Handler) ThumbnailGet(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.thumbnail_get"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := diagramIDFromPath(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	if !h.canViewDiagram(r, id) {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	key := domain.ThumbnailKey(id)
	rc, size, ct, err := h.Storage.Get(r.Context(), key)
	if err != nil {
		logx.Error(h.Log, reqID, op, "storage get failed", err, "key", key)
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}
	defer rc.Close()

	if ct == "" {
		ct = "image/png"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("X-Request-ID", reqID)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)

	logx.Info(h.Log, reqID, op, "ok", "diagram_id", id, "size", size)
}

// canViewDiagram — видимость для чтения превью: владелец/админ,
// персональный грант или публичный шаринг.
func (h *Handler) canViewDiagram(r *http.Request, id domain.DiagramID) bool {
	if actor, ok := mw.ActorFromCtx(r.Context()); ok {
		if _, err := h.Diagrams.Get(r.Context(), actor, id); err == nil {
			return true
		} else if !errors.Is(err, domain.ErrNotFound) {
			return false
		}
		if ok, err := h.Sharing.IsCollaborator(r.Context(), actor, id); err == nil && ok {
			return true
		}
	}
	pub, err := h.Sharing.IsPublic(r.Context(), id)
	return err == nil && pub
}
