package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ojt-tracker/internal/metrics"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/utils"
	"gorm.io/gorm"
)

// DocumentHandler handles document upload, listing and deletion
type DocumentHandler struct {
	DB       *gorm.DB
	Store    services.FileStore
	MaxBytes int64
}

// List handles GET /api/documents
// @Summary List documents
// @Tags Documents
// @Produce json
// @Param user_id query int false "Owner, defaults to the session user"
// @Param category query string false "Category, or all"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	userID, err := targetUser(c, c.Query("user_id"))
	if err != nil {
		return serviceError(c, err, "listDocuments")
	}
	docs, err := services.ListDocuments(h.DB.WithContext(c.UserContext()), userID, c.Query("category", "all"))
	if err != nil {
		return serviceError(c, err, "listDocuments")
	}
	return utils.SuccessResponse(c, docs, "", fiber.StatusOK)
}

// Upload handles POST /api/documents
// @Summary Upload a document
// @Description Multipart upload. Allowed types: pdf, doc, docx, jpg, jpeg, png, gif, txt, xlsx, xls, ppt, pptx.
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param user_id formData int false "Owner, defaults to the session user"
// @Param name formData string true "Display name"
// @Param category formData string true "Category"
// @Param description formData string false "Description"
// @Param file formData file true "File"
// @Success 201 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	userID, err := targetUser(c, c.FormValue("user_id"))
	if err != nil {
		return serviceError(c, err, "uploadDocument")
	}

	in := services.UploadInput{
		UserID:      userID,
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
	}

	fh, err := c.FormFile("file")
	if err == nil {
		f, err := fh.Open()
		if err != nil {
			return serviceError(c, err, "uploadDocument")
		}
		defer f.Close()
		in.File = f
		in.OriginalName = fh.Filename
		in.Size = fh.Size
	}

	doc, err := services.UploadDocument(h.DB.WithContext(c.UserContext()), h.Store, in, h.MaxBytes)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			metrics.Documents.WithLabelValues("rejected").Inc()
		}
		return serviceError(c, err, "uploadDocument")
	}
	metrics.Documents.WithLabelValues("uploaded").Inc()
	metrics.UploadBytes.Observe(float64(doc.FileSize))

	return utils.SuccessResponse(c, doc, "Document uploaded successfully", fiber.StatusCreated)
}

// Delete handles DELETE /api/documents?id=
// @Summary Delete a document
// @Tags Documents
// @Produce json
// @Param id query int true "Document id"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /documents [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, err := queryID(c, "id", "Document ID required")
	if err != nil {
		return serviceError(c, err, "deleteDocument")
	}

	db := h.DB.WithContext(c.UserContext())
	owner, err := services.DocumentOwner(db, id)
	if err != nil {
		return serviceError(c, err, "deleteDocument")
	}
	if err := checkAccess(sessionUser(c), owner); err != nil {
		return serviceError(c, err, "deleteDocument")
	}

	if err := services.DeleteDocument(db, h.Store, id); err != nil {
		return serviceError(c, err, "deleteDocument")
	}
	metrics.Documents.WithLabelValues("deleted").Inc()

	return utils.SuccessResponse(c, nil, "Document deleted successfully", fiber.StatusOK)
}
