package api

import (
	"net/http"

	"github.com/arbiterhq/arbiter/internal/accuracy"
	"github.com/arbiterhq/arbiter/internal/batch"
	"github.com/arbiterhq/arbiter/internal/config"
	"github.com/arbiterhq/arbiter/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Documents.Handler(cfg.API.MaxContentSizeBytes()).Routes(),
		domain.Classifications.Handler().Routes(),
		batch.NewHandler(domain.Batch, runtime.Logger).Routes(),
		accuracy.NewHandler(runtime.Tracker, runtime.Logger).Routes(),
	)
}
