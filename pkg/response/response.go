package response

import (
	"github.com/gin-gonic/gin"
)

// Success writes the standard success envelope: a message plus any
// endpoint-specific fields (user, users, count, ...).
func Success(c *gin.Context, status int, message string, fields gin.H) {
	body := gin.H{"message": message}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes the standard error envelope {"error": ...}.
func Error(c *gin.Context, status int, errMsg string) {
	c.JSON(status, gin.H{"error": errMsg})
}

// ErrorWithDetail writes {"error": ..., "message": ...}. The detail is the
// server-side failure description; callers must never pass anything derived
// from credentials through it.
func ErrorWithDetail(c *gin.Context, status int, errMsg, detail string) {
	c.JSON(status, gin.H{"error": errMsg, "message": detail})
}
