package controllers

import (
	"context"
	"net/http"

	"github.com/zarpadomueble-ops/storefront-gateway/api/responses"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/config"
	pkgerrors "github.com/zarpadomueble-ops/storefront-gateway/pkg/errors"
	"github.com/zarpadomueble-ops/storefront-gateway/pkg/logger"
)

// Pinger is anything with a health check; the session store implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Zarpado-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-Zarpado-Env", cfg.App.Env)

		if store != nil {
			if err := store.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeInternal, err, "session store unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
