package handlers

import (
	"errors"
	"net/http"

	"github.com/charitymap/charitymap-api/internal/domain"
	"github.com/charitymap/charitymap-api/internal/http/response"
	"github.com/charitymap/charitymap-api/internal/service"
)

type Handlers struct {
	auth   service.AuthService
	events service.EventsService
}

func New(auth service.AuthService, events service.EventsService) *Handlers {
	return &Handlers{auth: auth, events: events}
}

// writeServiceError maps the services' error vocabulary onto HTTP status
// codes; anything outside it is an internal error.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(w, verr.Msg)
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.WriteError(w, http.StatusUnauthorized, "Invalid email or password", response.CodeUnauthorized)
	case errors.Is(err, domain.ErrInvalidInvite):
		response.WriteError(w, http.StatusConflict, "Invalid or expired invite token", response.CodeInvalidInvite)
	case errors.Is(err, domain.ErrInviteEmailMismatch):
		response.WriteError(w, http.StatusConflict, "Email does not match invite", response.CodeInvalidInvite)
	case errors.Is(err, domain.ErrEmailTaken):
		response.WriteError(w, http.StatusConflict, "Email already registered", response.CodeEmailExists)
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, "Not found")
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(w, "Forbidden")
	default:
		response.InternalError(w, "Internal server error")
	}
}
