package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/utils"
	"gorm.io/gorm"
)

// LookupHandler serves the reference data lists
type LookupHandler struct {
	DB *gorm.DB
}

// Categories handles GET /api/categories
// @Summary List categories
// @Tags Lookups
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Router /categories [get]
func (h *LookupHandler) Categories(c *fiber.Ctx) error {
	categories, err := services.ListCategories(h.DB.WithContext(c.UserContext()))
	if err != nil {
		return serviceError(c, err, "listCategories")
	}
	return utils.SuccessResponse(c, categories, "Categories retrieved successfully", fiber.StatusOK)
}

// Priorities handles GET /api/priorities
// @Summary List priorities
// @Tags Lookups
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Router /priorities [get]
func (h *LookupHandler) Priorities(c *fiber.Ctx) error {
	priorities, err := services.ListPriorities(h.DB.WithContext(c.UserContext()))
	if err != nil {
		return serviceError(c, err, "listPriorities")
	}
	return utils.SuccessResponse(c, priorities, "Priorities retrieved successfully", fiber.StatusOK)
}

// Statuses handles GET /api/statuses
// @Summary List task statuses
// @Tags Lookups
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Router /statuses [get]
func (h *LookupHandler) Statuses(c *fiber.Ctx) error {
	statuses, err := services.ListStatuses(h.DB.WithContext(c.UserContext()))
	if err != nil {
		return serviceError(c, err, "listStatuses")
	}
	return utils.SuccessResponse(c, statuses, "Statuses retrieved successfully", fiber.StatusOK)
}
