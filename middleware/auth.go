package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/config"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/internal/gotrue"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/utils"
)

// Locals keys set by RequireUser.
const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
)

// SessionCookie carries the access token for browser clients that signed in
// with the remember option; API clients send a bearer header instead.
const SessionCookie = "session_token"

// RequireUser authenticates the request against GoTrue and stores the user id
// and email in locals. Requests without a resolvable session get 401.
func RequireUser(auth gotrue.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = c.Cookies(SessionCookie)
		}
		if token == "" {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Authentication required")
		}

		user, err := auth.GetUser(c.Context(), token)
		if err != nil {
			config.Log.WithField("request_id", c.Locals("requestid")).
				Warnf("Session resolution failed: %v", err)
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Invalid or expired session")
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUserEmail, user.Email)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
