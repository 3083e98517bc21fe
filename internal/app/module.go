package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gorecover/internal/recovery"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.recovery.enabled") {
		if err := recovery.New(recovery.Dependency{
			Ctx:        a.ctx,
			PgxConn:    a.pgxConn,
			SQLConn:    a.sqlConn,
			CacheConn:  a.cacheConn,
			Publisher:  a.messaging,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			HMAC:       a.hmac,
			Password:   a.password,
			OTP:        a.otp,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module recovery", "error", err)
			os.Exit(1)
		}
	}
}
