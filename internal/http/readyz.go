package http

import (
	"net/http"
	"time"

	"github.com/clipboardhq/clipboard/internal/store"
	"github.com/clipboardhq/clipboard/pkg/accountsdk"
	"github.com/clipboardhq/clipboard/pkg/httpx"
)

// ReadyzHandler godoc
//
//	@Summary	Readiness probe
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	accountsdk.HealthResponse
//	@Failure	503	{object}	accountsdk.HealthResponse	"Database unreachable"
//	@Router		/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &accountsdk.HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, accountsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
