package controllers

import (
	"errors"
	"time"

	"github.com/bluezpowerhouse/autoshop/app/models"
	"github.com/bluezpowerhouse/autoshop/app/repository"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/database"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/session"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleAPILogin authenticates a user and establishes a session cookie.
// Login failures are deliberately indistinct so accounts cannot be probed.
func HandleAPILogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	users := repository.GetGlobalRepositories().User
	user, err := users.GetByUsername(req.Username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
		}
		// Allow logging in with the email address as well
		user, err = users.GetByEmail(req.Username)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
	}

	if !user.IsActive() || !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}

	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Username)
	sess.Set(usercontext.KeyUserRole, user.Role)
	sess.Set(usercontext.KeyIsAdmin, user.Role == models.ROLE_ADMIN)

	if err := sess.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}

	database.GetDB().Model(user).Update("last_login_at", time.Now())

	return c.JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// HandleAPILogout destroys the current session.
func HandleAPILogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	return c.JSON(fiber.Map{"status": "logged out"})
}

// HandleAPIMe returns the current session's user context.
func HandleAPIMe(c *fiber.Ctx) error {
	ctx := usercontext.GetUserContext(c)
	if !ctx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	return c.JSON(ctx)
}
