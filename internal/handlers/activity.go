package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/types"
	"github.com/localnerve/ojt-tracker/internal/utils"
	"gorm.io/gorm"
)

// ActivityHandler handles the activity log
type ActivityHandler struct {
	DB *gorm.DB
}

// List handles GET /api/activity
// @Summary Recent activity
// @Tags Activity
// @Produce json
// @Param user_id query int false "User, defaults to the session user"
// @Param limit query int false "Maximum rows, default 50"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /activity [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	userID, err := targetUser(c, c.Query("user_id"))
	if err != nil {
		return serviceError(c, err, "listActivity")
	}
	views, err := services.ListActivity(h.DB.WithContext(c.UserContext()), userID, c.QueryInt("limit", services.DefaultActivityLimit))
	if err != nil {
		return serviceError(c, err, "listActivity")
	}
	return utils.SuccessResponse(c, views, "", fiber.StatusOK)
}

// Append handles POST /api/activity with one entry or an array of entries
// @Summary Record activity
// @Description Accepts a single entry or an array, stored atomically. Used to flush the client's offline cache.
// @Tags Activity
// @Accept json
// @Produce json
// @Param entries body []services.ActivityEntry true "Entry or entries"
// @Success 201 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /activity [post]
func (h *ActivityHandler) Append(c *fiber.Ctx) error {
	var entries types.FlexList[services.ActivityEntry]
	if err := c.BodyParser(&entries); err != nil {
		return utils.ValidationResponse(c, "Invalid JSON body")
	}

	me := sessionUser(c)
	list := entries.Slice()
	for i := range list {
		if list[i].UserID == 0 {
			list[i].UserID = types.FlexUint64(me.ID)
		}
		if err := checkAccess(me, list[i].UserID.Uint64()); err != nil {
			return serviceError(c, err, "appendActivity")
		}
	}

	ids, err := services.AppendActivity(h.DB.WithContext(c.UserContext()), list)
	if err != nil {
		return serviceError(c, err, "appendActivity")
	}
	return utils.SuccessResponse(c, fiber.Map{"ids": ids}, "Activity logged", fiber.StatusCreated)
}
