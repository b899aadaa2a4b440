package handler

import (
	"errors"
	"net/http"

	"github.com/careops/platform/internal/api/response"
	"github.com/careops/platform/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// writeError maps service errors onto HTTP statuses. Anything that is not a
// known sentinel is a 500 with the raw error withheld from the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		response.Forbidden(w, "access denied")
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, "not found")
	case errors.Is(err, domain.ErrSlotTaken):
		response.Conflict(w, domain.ErrSlotTaken.Error())
	default:
		response.InternalError(w, "internal error")
	}
}
