package middleware

import (
	"github.com/bluezpowerhouse/autoshop/internal/pkg/session"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware sets up the complete user context for every request
// This centralizes user session handling and eliminates code duplication
func UserContextMiddleware(c *fiber.Ctx) error {
	anonymous := usercontext.UserContext{IsLoggedIn: false, IsAdmin: false}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		// On error: set as anonymous user
		c.Locals("USER_CONTEXT", anonymous)
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		// Anonymous user - no session data
		c.Locals("USER_CONTEXT", anonymous)
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	username, _ := sess.Get(usercontext.KeyUsername).(string)
	role, _ := sess.Get(usercontext.KeyUserRole).(string)
	isAdmin, _ := sess.Get(usercontext.KeyIsAdmin).(bool)

	c.Locals("USER_CONTEXT", usercontext.UserContext{
		UserID:     userID.(uint),
		Username:   username,
		Role:       role,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
	})
	c.Locals(usercontext.KeyFromProtected, true)

	return c.Next()
}
