package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/session"
)

// CurrentSession returns the augmented session loaded for this request.
func CurrentSession(c *gin.Context) *session.Session {
	return session.FromContext(c.Request.Context())
}

// ClinicID is the active clinic of the session. Tenant routes run behind
// the clinic guard, so it is set whenever a handler asks for it.
func ClinicID(c *gin.Context) uuid.UUID {
	return CurrentSession(c).ClinicID()
}

// ParseID reads a uuid path parameter, answering 400 when it is malformed.
func ParseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("invalid "+param))
		return uuid.Nil, false
	}
	return id, true
}
