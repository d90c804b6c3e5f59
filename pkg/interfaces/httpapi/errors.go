package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/bomplan/pkg/application/services/mrp"
	"github.com/vsinha/bomplan/pkg/application/services/orchestration"
	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/domain/repositories"
	"github.com/vsinha/bomplan/pkg/domain/services/bom_validator"
	"github.com/vsinha/bomplan/pkg/domain/services/bomgraph"
)

// errorResponse is the body of every failed request
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	var verr *bom_validator.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, bomgraph.ErrNoRoot),
		errors.Is(err, bomgraph.ErrNotATree):
		return http.StatusUnprocessableEntity
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidSchedule),
		errors.Is(err, mrp.ErrEmptyTree),
		errors.Is(err, orchestration.ErrInvalidTree):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	body := errorResponse{Error: err.Error()}
	var verr *bom_validator.ValidationError
	if errors.As(err, &verr) {
		body.Kind = verr.Kind.String()
	}
	c.AbortWithStatusJSON(statusFor(err), body)
}

// badRequest reports undecodable or semantically invalid input
func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}
