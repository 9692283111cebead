package http

import (
	"net/http"
	"time"

	"github.com/clipboardhq/clipboard/pkg/accountsdk"
	"github.com/clipboardhq/clipboard/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary	Liveness probe
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	accountsdk.HealthResponse
//	@Router		/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, accountsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
