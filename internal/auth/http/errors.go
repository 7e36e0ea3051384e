package http

import (
	"log/slog"
	"net/http"

	"github.com/borntotravel/auth/internal/auth/domain"
	"github.com/borntotravel/auth/pkg/authsdk"
	"github.com/borntotravel/auth/pkg/slogx"
)

type errorMapping struct {
	status int
	code   string
}

// errorTable is the only place an error kind becomes an HTTP status.
var errorTable = map[domain.ErrorKind]errorMapping{
	domain.KindBadCredentials:  {http.StatusBadRequest, authsdk.ErrorCodeBadCredentials},
	domain.KindBadRefreshToken: {http.StatusBadRequest, authsdk.ErrorCodeBadRefreshToken},
	domain.KindBadRequest:      {http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest},
	domain.KindWeakPassword:    {http.StatusBadRequest, authsdk.ErrorCodeWeakPassword},
	domain.KindUnauthorized:    {http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized},
	domain.KindNotFound:        {http.StatusNotFound, authsdk.ErrorCodeNotFound},
	domain.KindExpired:         {http.StatusNotFound, authsdk.ErrorCodeExpired},
	domain.KindConflict:        {http.StatusConflict, authsdk.ErrorCodeConflict},
}

// toAPIError maps err onto the wire error. Internal and unclassified
// errors become the opaque server error.
func toAPIError(err error) *authsdk.APIError {
	de := domain.AsError(err)
	m, ok := errorTable[de.Kind]
	if !ok {
		return authsdk.ErrServerError
	}
	return &authsdk.APIError{
		StatusCode:  m.status,
		Code:        m.code,
		Description: de.Msg,
		Rules:       de.Rules,
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)

	log := slogx.FromContext(r.Context())
	if apiErr.StatusCode >= http.StatusInternalServerError {
		log.Error("request failed", slog.Any("error", err))
	} else {
		log.Debug("request rejected", slog.String("code", apiErr.Code))
	}

	apiErr.WriteError(w)
}

// writeBadBody answers a body that could not be decoded. The decoder's
// message stays in the log.
func writeBadBody(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Debug("malformed request body", slog.Any("error", err))
	writeError(w, r, domain.BadRequest("malformed request body"))
}
