package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health answers the root liveness probe with the plain-text banner the
// mobile client and website ping during development.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "Server is running")
}
