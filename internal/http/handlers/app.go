package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Takuma-AI/openai-images-mcp/internal/imagegen"
	"github.com/Takuma-AI/openai-images-mcp/internal/infra"
)

// App bundles the dependencies shared by all handlers.
type App struct {
	Service *imagegen.Service
	Config  *infra.Config
	Logger  infra.Logger
}

// NewApp constructs the handler container.
func NewApp(service *imagegen.Service, cfg *infra.Config, logger infra.Logger) *App {
	return &App{Service: service, Config: cfg, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]any{
		"success": false,
		"kind":    kind,
		"error":   message,
	})
}
