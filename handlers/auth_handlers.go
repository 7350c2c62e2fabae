package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/middleware"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/utils"
)

// rememberDuration is how long a remembered session cookie lives. Without
// remember the cookie is session-scoped and dies with the browser.
const rememberDuration = 30 * 24 * time.Hour

// LoginRequest is the body for password sign-in. Remember is an explicit
// parameter deciding session durability at login time; nothing else reads it.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

// Login godoc
// @Summary Sign in with email and password
// @Description Exchanges credentials for a session. With remember=true the
// @Description session cookie persists for 30 days, otherwise it is
// @Description session-scoped.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *ApplicationHandler) Login(c *fiber.Ctx) error {
	req := new(LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse login JSON")
	}
	if err := h.Validate.Struct(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), "; "))
	}

	session, err := h.Auth.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		h.Logger.Warnf("Sign-in failed for %s: %v", req.Email, err)
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	cookie := &fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.AccessToken,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	}
	if req.Remember {
		cookie.Expires = time.Now().Add(rememberDuration)
	}
	c.Cookie(cookie)

	role, err := h.Store.GetRole(c.Context(), session.User.ID)
	if err != nil {
		return h.respondError(c, err)
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_in":    session.ExpiresIn,
		"user": fiber.Map{
			"id":    session.User.ID,
			"email": session.User.Email,
			"role":  role,
		},
	})
}

// Me godoc
// @Summary Describe the current session
// @Description Returns the caller's identity and resolved role.
// @Tags auth
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Router /auth/me [get]
func (h *ApplicationHandler) Me(c *fiber.Ctx) error {
	userID := currentUserID(c)
	role, err := h.Store.GetRole(c.Context(), userID)
	if err != nil {
		return h.respondError(c, err)
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"id":    userID,
		"email": currentUserEmail(c),
		"role":  role,
	})
}
