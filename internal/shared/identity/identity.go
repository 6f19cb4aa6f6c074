// Package identity carries the authenticated caller through request
// context for handlers and middleware.
package identity

import "github.com/gin-gonic/gin"

const contextKey = "panaderia.identity"

// Identity is the session-derived caller: who they are and whether
// they hold the admin flag.
type Identity struct {
	UserID   int64
	Username string
	Admin    bool
}

// Set attaches the identity to the request context.
func Set(c *gin.Context, id Identity) {
	c.Set(contextKey, id)
}

// FromContext returns the caller identity when a valid session was seen.
func FromContext(c *gin.Context) (Identity, bool) {
	value, ok := c.Get(contextKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := value.(Identity)
	return id, ok
}
