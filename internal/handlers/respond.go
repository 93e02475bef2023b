package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
)

// Every endpoint answers with the same envelope:
// { success, message?, data?, hint? }.

func respondOK(c *gin.Context, status int, message string, data gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, route, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// respondErrorWithHint carries a machine-readable hint the client can act
// on, e.g. hint="verify" redirects to the OTP screen.
func respondErrorWithHint(c *gin.Context, status int, route, message, hint string) {
	log.Printf("[%s] returning error %d: %s (hint=%s)", route, status, message, hint)
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message, "hint": hint})
}
