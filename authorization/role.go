package authorization

import (
	"bloggy-api/apperror"

	"github.com/gin-gonic/gin"
)

// key of the credentials in the gin context
const credentialsKey = "credentials"

// SetCredentials is called by the token middleware
func SetCredentials(c *gin.Context, cred Credentials) {
	c.Set(credentialsKey, cred)
}

// GetCredentials returns the signed-in user; ok is false for anonymous requests
func GetCredentials(c *gin.Context) (Credentials, bool) {
	v, ok := c.Get(credentialsKey)
	if !ok {
		return Credentials{}, false
	}
	cred, ok := v.(Credentials)
	return cred, ok
}

// RequireRole must run after the token middleware; failures are attached to the
// context and rendered by the error middleware
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred, ok := GetCredentials(c)
		if !ok {
			_ = c.Error(apperror.Unauthorized("requires authorization"))
			c.Abort()
			return
		}
		for _, r := range roles {
			if cred.Role == r {
				c.Next()
				return
			}
		}
		_ = c.Error(apperror.Forbidden("you do not have permission to perform this action"))
		c.Abort()
	}
}
