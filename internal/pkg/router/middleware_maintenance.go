package router

import (
	"net/http"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gorecover/internal/pkg/config"
	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
)

func middlewareMaintenance(cfg config.Config) Middleware {
	var endpoints map[string]struct{}
	if cfg != nil {
		endpoints = lo.Keyify(cfg.GetArray("app.maintenance.endpoints"))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			if _, blocked := endpoints[route]; blocked {
				errorCodec(r.Context(), w, goerror.NewBusiness("service is under maintenance", goerror.CodeUnavailable))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
