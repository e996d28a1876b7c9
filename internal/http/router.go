package http

import (
	"net/http"
	"strings"
)

// RouterConfig wires the handlers served by NewRouter.
type RouterConfig struct {
	Updates    *UpdateHandler
	Health     *HealthHandler
	Secret     string
	Middleware []func(http.Handler) http.Handler
}

// NewRouter builds the webhook mux. Middleware wraps every route, the first
// entry outermost; the secret check applies to /updates only.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Updates != nil {
		updates := RequireSecret(cfg.Secret, cfg.Updates.logger)(http.HandlerFunc(cfg.Updates.Handle))
		mux.HandleFunc("/updates", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			updates.ServeHTTP(w, r)
		})
	}

	if cfg.Health != nil {
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				methodNotAllowed(w, http.MethodGet, http.MethodHead)
				return
			}
			cfg.Health.Handle(w, r)
		})
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
