package books

import (
	"github.com/mirtitov/library-catalog/internal/catalog"
	"github.com/mirtitov/library-catalog/internal/enrich"
)

// Handler bundles the dependencies of the /books endpoints.
type Handler struct {
	Svc   *catalog.Service
	Queue *enrich.Queue // optional; nil disables background enrichment
}

func New(svc *catalog.Service, queue *enrich.Queue) *Handler {
	return &Handler{Svc: svc, Queue: queue}
}
