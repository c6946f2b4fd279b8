package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ojt-tracker/internal/logger"
	"github.com/localnerve/ojt-tracker/internal/metrics"
	"github.com/localnerve/ojt-tracker/internal/middleware"
	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles login, signup, logout and session checks
type AuthHandler struct {
	DB   *gorm.DB
	Auth *middleware.Auth
}

// AuthStatus is the check_auth response
type AuthStatus struct {
	Authenticated bool                  `json:"authenticated"`
	User          *services.SessionUser `json:"user,omitempty"`
}

// AuthResponse is the login and signup response. The user sits at the top
// level, not under data.
type AuthResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	User    *services.SessionUser `json:"user"`
}

// Login handles POST /api/login
// @Summary Log in
// @Description Accepts a username or email. With remember set a 30 day remember cookie is issued.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body services.LoginInput true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ValidationResponse(c, "Invalid JSON body")
	}

	res, err := services.Login(h.DB.WithContext(c.UserContext()), in)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			metrics.Logins.WithLabelValues("failure").Inc()
		}
		return serviceError(c, err, "login")
	}
	metrics.Logins.WithLabelValues("success").Inc()

	user, err := h.Auth.SignIn(c, res.User, res.RememberToken)
	if err != nil {
		return serviceError(c, err, "login")
	}
	return c.Status(fiber.StatusOK).JSON(AuthResponse{Success: true, Message: "Login successful", User: &user})
}

// Signup handles POST /api/signup
// @Summary Create an account
// @Description Creates an active user with the user role and signs them in.
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body services.SignupInput true "Account"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in services.SignupInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ValidationResponse(c, "Invalid JSON body")
	}

	created, err := services.Signup(h.DB.WithContext(c.UserContext()), in)
	if err != nil {
		return serviceError(c, err, "signup")
	}
	metrics.Signups.Inc()

	user, err := h.Auth.SignIn(c, created, "")
	if err != nil {
		return serviceError(c, err, "signup")
	}
	return c.Status(fiber.StatusCreated).JSON(AuthResponse{Success: true, Message: "Account created successfully!", User: &user})
}

// Logout handles POST /api/logout. It succeeds with or without a session.
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Router /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	prev, err := h.Auth.SignOut(c)
	if err != nil {
		return serviceError(c, err, "logout")
	}

	if prev != nil {
		db := h.DB.WithContext(c.UserContext())
		if err := services.Logout(db, prev.ID); err != nil {
			return serviceError(c, err, "logout")
		}
		if err := services.LogActivity(db, prev.ID, nil, models.ActionLogout, "User "+prev.Username+" logged out", nil); err != nil {
			logger.Warn("failed to log logout activity", "user_id", prev.ID, "error", err)
		}
	}
	return utils.SuccessResponse(c, nil, "Logged out successfully", fiber.StatusOK)
}

// CheckAuth handles GET /api/check_auth
// @Summary Session check
// @Description Reports the signed-in user, restoring the session from a remember cookie when possible.
// @Tags Auth
// @Produce json
// @Success 200 {object} AuthStatus
// @Router /check_auth [get]
func (h *AuthHandler) CheckAuth(c *fiber.Ctx) error {
	user, err := h.Auth.CurrentUser(c)
	if err != nil {
		return serviceError(c, err, "checkAuth")
	}
	return c.JSON(AuthStatus{Authenticated: user != nil, User: user})
}
