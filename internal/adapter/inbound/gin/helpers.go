package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseOrderID reads the :id path parameter. It writes a 400 response and
// returns false when the parameter is not a UUID.
func parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid_id", "invalid order ID")
		return uuid.Nil, false
	}
	return id, true
}
