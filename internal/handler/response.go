package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

// MsgGeneric is shown for any failure whose detail must stay server-side.
const MsgGeneric = "Something went wrong. Please try again."

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationResponse carries one message per failing form field.
type ValidationResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

func NewValidationResponse(fe apperrors.FieldErrors) *ValidationResponse {
	return &ValidationResponse{
		Status:  "error",
		Message: "validation failed",
		Errors:  fe,
	}
}

// RespondError writes err as a response. Field errors become 422, application
// errors use their own status, and anything else is logged and hidden behind
// a generic 500.
func RespondError(c *gin.Context, err error) {
	if fe, ok := apperrors.AsFieldErrors(err); ok {
		c.JSON(http.StatusUnprocessableEntity, NewValidationResponse(fe))
		return
	}

	if appErr, ok := apperrors.As(err); ok && appErr.Code != apperrors.ErrInternal {
		if appErr.Err != nil {
			log.Ctx(c.Request.Context()).Debug().Err(appErr.Err).Str("code", string(appErr.Code)).Msg("Request failed")
		}
		c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
		return
	}

	log.Ctx(c.Request.Context()).Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("Unhandled error")
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, NewErrorResponse(MsgGeneric))
}

// BadJSON answers a body that could not be decoded.
func BadJSON(c *gin.Context, err error) {
	log.Ctx(c.Request.Context()).Debug().Err(err).Msg("Invalid request body")
	c.JSON(http.StatusBadRequest, NewErrorResponse("invalid request body"))
}
