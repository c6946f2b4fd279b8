package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ojt-tracker/internal/middleware"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/types"
	"github.com/localnerve/ojt-tracker/internal/utils"
	"gorm.io/gorm"
)

// AdminHandler handles user management
type AdminHandler struct {
	DB   *gorm.DB
	Auth *middleware.Auth
}

// DeleteUserInput is the delete_user body
type DeleteUserInput struct {
	UserID types.FlexUint64 `json:"userId"`
}

// GetUsers handles GET /api/get_users
// @Summary List users
// @Description Admin only. Every user with task and completed task counts.
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /get_users [get]
func (h *AdminHandler) GetUsers(c *fiber.Ctx) error {
	users, err := services.ListUsers(h.DB.WithContext(c.UserContext()))
	if err != nil {
		return serviceError(c, err, "getUsers")
	}
	return utils.SuccessResponse(c, users, "", fiber.StatusOK)
}

// UpdateUser handles POST /api/update_user
// @Summary Update a user
// @Description Users may update themselves. Role and active flag changes need an admin.
// @Tags Admin
// @Accept json
// @Produce json
// @Param patch body services.UserPatch true "Fields to change"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /update_user [post]
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var patch services.UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.ValidationResponse(c, "Invalid JSON body")
	}

	me := sessionUser(c)
	user, err := services.UpdateUser(h.DB.WithContext(c.UserContext()), me, patch)
	if err != nil {
		return serviceError(c, err, "updateUser")
	}
	if user.ID == me.ID {
		if err := h.Auth.Refresh(c, user); err != nil {
			return serviceError(c, err, "updateUser")
		}
	}
	return utils.SuccessResponse(c, services.NewSessionUser(user), "User updated successfully", fiber.StatusOK)
}

// DeleteUser handles POST /api/delete_user
// @Summary Delete a user
// @Description Admin only. Removes the user with their tasks, documents and activity.
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body DeleteUserInput true "User to delete"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /delete_user [post]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	var in DeleteUserInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ValidationResponse(c, "Invalid JSON body")
	}

	if err := services.DeleteUser(h.DB.WithContext(c.UserContext()), sessionUser(c), in.UserID.Uint64()); err != nil {
		return serviceError(c, err, "deleteUser")
	}
	return utils.SuccessResponse(c, nil, "User deleted successfully", fiber.StatusOK)
}
