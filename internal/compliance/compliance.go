package compliance

import (
	"log/slog"

	"assetguard/internal/compliance/engine"
	"assetguard/internal/compliance/handler"
	"assetguard/internal/compliance/ports"
	"assetguard/internal/compliance/service"
)

// Engine runs compliance checks.
type Engine = engine.Engine

// Handler wires HTTP endpoints to the engine and the record store.
type Handler = handler.Handler

// NewEngine constructs an engine over a transaction runner.
func NewEngine(tx ports.StoreTx, opts ...engine.Option) *Engine {
	return engine.New(tx, opts...)
}

// NewHandler constructs an HTTP handler for run-checks, notifications and
// violations.
func NewHandler(e *Engine, records service.RecordStore, logger *slog.Logger) *Handler {
	return handler.New(e, service.NewRecords(records), logger)
}
