package diagram

import (
	"encoding/json"
	"net/http"

	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/transport/web/logx"
	"github.com/kln-se/uml-diagrams/internal/transport/web/mw"
	v1 "github.com/kln-se/uml-diagrams/internal/transport/web/v1"
)

// PublicGet godoc
// @Summary     Get publicly shared diagram
// @Description Доступно без аутентификации, только при активном публичном гранте.
// @Tags        public
// @Produce     json
// @Param       id path string true "diagram id"
// @Success     200 {object} domain.Diagram
// @Failure     404 {object} v1.DetailResponse
// @Router      /diagrams/public/{id} [get]
func (h *Handler) PublicGet(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.public_get"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := diagramIDFromPath(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	// горячий путь: публичные диаграммы читаются анонимно и часто
	key := domain.CacheKeyPublicDiagram(id)
	if b, err := h.Cache.Get(r.Context(), key); err == nil && len(b) > 0 {
		logx.Info(h.Log, reqID, op, "cache hit", "diagram_id", id)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-ID", reqID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		return
	}

	d, err := h.Diagrams.PublicGet(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "public get failed", err, "diagram_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	if buf, err := json.Marshal(d); err == nil {
		_ = h.Cache.Set(r.Context(), key, buf, h.PublicTTL)
	}

	logx.Info(h.Log, reqID, op, "ok", "diagram_id", id)
	v1.WriteJSON(w, r, http.StatusOK, d)
}
