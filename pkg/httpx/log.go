package httpx

import (
	"log/slog"
	"net/http"

	"github.com/borntotravel/auth/pkg/slogx"
)

func logger(r *http.Request) *slog.Logger {
	return slogx.FromContext(r.Context())
}
