package diagram

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/kln-se/uml-diagrams/internal/domain"
)

func diagramIDFromPath(r *http.Request) (domain.DiagramID, error) {
	return uuid.Parse(r.PathValue("id"))
}

// инвалидация кэша публичной диаграммы после изменения или скрытия
func (h *Handler) dropPublicCache(r *http.Request, id domain.DiagramID) {
	_ = h.Cache.Del(r.Context(), domain.CacheKeyPublicDiagram(id))
}
