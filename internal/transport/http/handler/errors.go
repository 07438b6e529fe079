package handler

import (
	"errors"
	"net/http"

	"github.com/ai-dashboard/internal/domain"
)

var authStatus = map[string]int{
	domain.AuthInvalidEmail:         http.StatusBadRequest,
	domain.AuthWeakPassword:         http.StatusBadRequest,
	domain.AuthEmailAlreadyInUse:    http.StatusConflict,
	domain.AuthUserNotFound:         http.StatusUnauthorized,
	domain.AuthWrongPassword:        http.StatusUnauthorized,
	domain.AuthInvalidCredential:    http.StatusUnauthorized,
	domain.AuthUserDisabled:         http.StatusForbidden,
	domain.AuthOperationNotAllowed:  http.StatusForbidden,
	domain.AuthNetworkRequestFailed: http.StatusServiceUnavailable,
}

// httpError maps service errors onto a status and JSON body. Unclassified
// errors become a bare 500 so storage details never reach the client.
func httpError(w http.ResponseWriter, err error) {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		status, ok := authStatus[authErr.Code]
		if !ok {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, MessageEnvelope{Error: authErr.Message(), Code: authErr.Code})
		return
	}

	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
