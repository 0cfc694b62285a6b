package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/robertboulos/clearleads/internal/infra/xano"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError resolves the provided error against known local
// cases, then against upstream backend failures, before falling back to a
// generic response. Backend errors keep their upstream status and message;
// transport failures surface as a bad gateway.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, cs.Message))
			return
		}
	}

	var apiErr *xano.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsNetwork() {
			c.JSON(http.StatusBadGateway, NewErrorResponse(c, apiErr.Message))
			return
		}
		c.JSON(apiErr.StatusCode, NewErrorResponse(c, apiErr.Message))
		return
	}

	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}
