package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/utils"
	"gorm.io/gorm"
)

// ProgressHandler serves progress reports and the spreadsheet export
type ProgressHandler struct {
	DB            *gorm.DB
	RequiredHours float64
}

func (h *ProgressHandler) options(c *fiber.Ctx) services.ProgressOptions {
	return services.ProgressOptions{
		IncludeEmptyCategories: c.QueryBool("include_empty"),
		RequiredHours:          h.RequiredHours,
	}
}

// Get handles GET /api/progress
// @Summary Progress report
// @Description Completion counts overall, per category and per priority, with milestones and hours.
// @Tags Progress
// @Produce json
// @Param user_id query int false "User, defaults to the session user"
// @Param include_empty query bool false "Include categories without tasks"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /progress [get]
func (h *ProgressHandler) Get(c *fiber.Ctx) error {
	userID, err := targetUser(c, c.Query("user_id"))
	if err != nil {
		return serviceError(c, err, "getProgress")
	}
	progress, err := services.GetProgress(h.DB.WithContext(c.UserContext()), userID, h.options(c))
	if err != nil {
		return serviceError(c, err, "getProgress")
	}
	return utils.SuccessResponse(c, progress, "", fiber.StatusOK)
}

// Export handles GET /api/export/tasks
// @Summary Export the OJT log
// @Description Streams the user's tasks as an xlsx workbook with a totals row and a summary sheet.
// @Tags Progress
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param user_id query int false "User, defaults to the session user"
// @Success 200 {file} file
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /export/tasks [get]
func (h *ProgressHandler) Export(c *fiber.Ctx) error {
	userID, err := targetUser(c, c.Query("user_id"))
	if err != nil {
		return serviceError(c, err, "exportTasks")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Attachment(fmt.Sprintf("ojt-log-%d-%s.xlsx", userID, time.Now().Format("20060102")))
	if err := services.ExportTasks(h.DB.WithContext(c.UserContext()), userID, h.options(c), c.Response().BodyWriter()); err != nil {
		c.Response().ResetBody()
		c.Response().Header.Del(fiber.HeaderContentDisposition)
		return serviceError(c, err, "exportTasks")
	}
	return nil
}
