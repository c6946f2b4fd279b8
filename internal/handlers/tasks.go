package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ojt-tracker/internal/metrics"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/types"
	"github.com/localnerve/ojt-tracker/internal/utils"
	"gorm.io/gorm"
)

// TaskHandler handles task routes
type TaskHandler struct {
	DB *gorm.DB
}

// Get handles GET /api/tasks?action=list|get
// @Summary List or get tasks
// @Description action=list returns the user's tasks ordered by due date (undated last) then priority. action=get returns one task.
// @Tags Tasks
// @Produce json
// @Param action query string true "list or get"
// @Param user_id query int false "Owner, defaults to the session user"
// @Param status query string false "Status name filter"
// @Param category query int false "Category filter (category_id is accepted as an alias)"
// @Param id query int false "Task id for action=get"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /tasks [get]
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	db := h.DB.WithContext(c.UserContext())

	switch c.Query("action", "list") {
	case "list":
		userID, err := targetUser(c, c.Query("user_id"))
		if err != nil {
			return serviceError(c, err, "listTasks")
		}
		category := c.Query("category")
		if category == "" {
			category = c.Query("category_id")
		}
		categoryID, err := types.ParseID(category)
		if err != nil {
			return utils.ValidationResponse(c, "Invalid category ID")
		}
		tasks, err := services.ListTasks(db, services.TaskFilter{
			UserID:     userID,
			Status:     c.Query("status"),
			CategoryID: categoryID,
		})
		if err != nil {
			return serviceError(c, err, "listTasks")
		}
		return utils.SuccessResponse(c, tasks, "Tasks retrieved successfully", fiber.StatusOK)

	case "get":
		id, err := queryID(c, "id", "Task ID required")
		if err != nil {
			return serviceError(c, err, "getTask")
		}
		task, err := services.GetTask(db, id)
		if err != nil {
			return serviceError(c, err, "getTask")
		}
		if err := checkAccess(sessionUser(c), task.UserID); err != nil {
			return serviceError(c, err, "getTask")
		}
		return utils.SuccessResponse(c, task, "Task retrieved successfully", fiber.StatusOK)
	}

	return utils.ValidationResponse(c, "Invalid action")
}

// Create handles POST /api/tasks
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param task body services.TaskInput true "Task"
// @Success 201 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var in services.TaskInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ValidationResponse(c, "Invalid JSON body")
	}

	me := sessionUser(c)
	if in.UserID == 0 {
		in.UserID = types.FlexUint64(me.ID)
	}
	if err := checkAccess(me, in.UserID.Uint64()); err != nil {
		return serviceError(c, err, "createTask")
	}

	id, err := services.CreateTask(h.DB.WithContext(c.UserContext()), in)
	if err != nil {
		return serviceError(c, err, "createTask")
	}
	metrics.TaskMutations.WithLabelValues("created").Inc()

	return utils.SuccessResponse(c, fiber.Map{"id": id}, "Task created successfully", fiber.StatusCreated)
}

// Update handles PUT /api/tasks?id=
// @Summary Update a task
// @Description Only the supplied fields change. An empty body is rejected.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id query int true "Task id"
// @Param patch body services.TaskPatch true "Fields to change"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /tasks [put]
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	id, err := queryID(c, "id", "Task ID required")
	if err != nil {
		return serviceError(c, err, "updateTask")
	}

	var patch services.TaskPatch
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&patch); err != nil {
			return utils.ValidationResponse(c, "Invalid JSON body")
		}
	}

	// "No fields to update" wins over an unknown id
	if updates, err := patch.Updates(); err != nil || len(updates) == 0 {
		if err == nil {
			err = services.ErrNoFields
		}
		return serviceError(c, err, "updateTask")
	}

	db := h.DB.WithContext(c.UserContext())
	me := sessionUser(c)
	owner, err := services.TaskOwner(db, id)
	if err != nil {
		return serviceError(c, err, "updateTask")
	}
	if err := checkAccess(me, owner); err != nil {
		return serviceError(c, err, "updateTask")
	}

	if err := services.UpdateTask(db, id, me.ID, patch); err != nil {
		return serviceError(c, err, "updateTask")
	}
	metrics.TaskMutations.WithLabelValues("updated").Inc()

	return utils.SuccessResponse(c, fiber.Map{"id": id}, "Task updated successfully", fiber.StatusOK)
}

// Delete handles DELETE /api/tasks?id=
// @Summary Delete a task
// @Tags Tasks
// @Produce json
// @Param id query int true "Task id"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /tasks [delete]
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id, err := queryID(c, "id", "Task ID required")
	if err != nil {
		return serviceError(c, err, "deleteTask")
	}

	db := h.DB.WithContext(c.UserContext())
	me := sessionUser(c)
	owner, err := services.TaskOwner(db, id)
	if err != nil {
		return serviceError(c, err, "deleteTask")
	}
	if err := checkAccess(me, owner); err != nil {
		return serviceError(c, err, "deleteTask")
	}

	if err := services.DeleteTask(db, id, me.ID); err != nil {
		return serviceError(c, err, "deleteTask")
	}
	metrics.TaskMutations.WithLabelValues("deleted").Inc()

	return utils.SuccessResponse(c, nil, "Task deleted successfully", fiber.StatusOK)
}
