package httpkit

import (
	"net/http"
	"time"

	"querycanon/internal/platform/config"
	"querycanon/internal/platform/net/middleware"
	pstrings "querycanon/internal/platform/strings"
)

// CommonStack is the baseline middleware for the admin API, read from cfg:
// API_TIMEOUT bounds each request (a synchronous drain included), API_CORS_ORIGINS
// is a comma separated allow list and disables CORS when empty
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	stack := middleware.Defaults(cfg.MayDuration("API_TIMEOUT", 5*time.Minute))
	if origins := pstrings.SplitList(cfg.MayString("API_CORS_ORIGINS", "")); len(origins) > 0 {
		stack = append(stack, middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins, MaxAge: 300}))
	}
	return stack
}
