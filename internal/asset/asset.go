package asset

import (
	"log/slog"

	"assetguard/internal/asset/handler"
	"assetguard/internal/asset/service"
)

// Service exposes asset CRUD and the mark-serviced action.
type Service = service.Service

// Handler wires HTTP endpoints to the asset service.
type Handler = handler.Handler

// NewService constructs the asset service over the given store.
func NewService(store service.Store, opts ...service.Option) *Service {
	return service.New(store, opts...)
}

// NewHandler constructs an HTTP handler for the asset routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
