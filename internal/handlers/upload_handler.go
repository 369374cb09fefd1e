package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"recruitai/assistant/internal/models"
	"recruitai/assistant/internal/services"
)

type UploadHandler struct {
	workflow       services.Workflow
	storageService services.StorageService
	maxFileSize    int64
}

func NewUploadHandler(
	workflow services.Workflow,
	storageService services.StorageService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		workflow:       workflow,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /documents. It accepts the multipart fields
// "job_description" and "resume"; either or both may be present. Extraction
// starts in the background, its completion shows up in GET /state.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	files := form.File

	var responses []models.UploadResponse

	for _, slot := range []models.DocumentSlot{models.SlotJobDescription, models.SlotResume} {
		slotFiles, exists := files[string(slot)]
		if !exists || len(slotFiles) == 0 {
			continue
		}
		file := slotFiles[0]

		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
			})
		}

		// Save file
		filename, filePath, err := h.storageService.SaveFile(file, string(slot))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save %s file: %v", slot, err),
			})
		}

		doc := &models.Document{
			ID:               uuid.New(),
			Slot:             slot,
			Filename:         filename,
			OriginalFileName: file.Filename,
			FilePath:         filePath,
			UploadedAt:       time.Now(),
		}

		h.workflow.AttachDocument(doc)

		responses = append(responses, models.UploadResponse{
			ID:           doc.ID.String(),
			Slot:         string(doc.Slot),
			Filename:     doc.Filename,
			OriginalName: doc.OriginalFileName,
		})
	}

	if len(responses) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No valid files uploaded. Please upload 'job_description' and/or 'resume'.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Files uploaded successfully",
		"documents": responses,
	})
}
