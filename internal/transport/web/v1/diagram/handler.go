package diagram

import (
	"log"

	"github.com/kln-se/uml-diagrams/internal/diagrams"
	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/sharing"
)

type Handler struct {
	Log      *log.Logger
	Diagrams *diagrams.Service
	Sharing  *sharing.Service
	Cache    domain.Cache
	Storage  domain.BlobStorage

	PublicTTL int // секунд, кэш публичных диаграмм
}
