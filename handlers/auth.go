package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/finquest/finquest/models"
	"github.com/finquest/finquest/utils"
)

// Signup creates a local account and returns the profile.
func Signup(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.SignupRequest
		if !utils.ParseAndValidate(c, &req) {
			return nil
		}

		user, err := webApp.AuthService.Register(c.Context(), req.Email, req.Username, req.Password)
		if err != nil {
			return utils.MapServiceError(c, err)
		}

		slog.Info("User registered",
			slog.String("user_id", user.ID.String()),
			slog.String("username", user.Username))
		return utils.SendCreated(c, webmodels.NewUserResponse(user), "Account created")
	}
}

// Login authenticates with username or email plus password and issues a token.
func Login(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.LoginRequest
		if !utils.ParseAndValidate(c, &req) {
			return nil
		}

		token, user, err := webApp.AuthService.Login(c.Context(), req.Identifier, req.Password)
		if err != nil {
			return utils.MapServiceError(c, err)
		}

		resp := webmodels.NewTokenResponse(token, webApp.Config.Auth.AccessTTL(), user)
		return utils.SendSuccess(c, resp, "Logged in")
	}
}

// GoogleCallback completes the federated Google flow: it verifies the
// ID token from the callback and issues a local token, provisioning an
// account on first sight of the email.
func GoogleCallback(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idToken := c.Query("id_token")
		if idToken == "" {
			return utils.SendBadRequest(c, "Missing id_token", nil)
		}

		token, user, err := webApp.AuthService.LoginGoogle(c.Context(), idToken)
		if err != nil {
			return utils.MapServiceError(c, err)
		}

		resp := webmodels.NewTokenResponse(token, webApp.Config.Auth.AccessTTL(), user)
		return utils.SendSuccess(c, resp, "Logged in with Google")
	}
}
