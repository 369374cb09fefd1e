package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"recruitai/assistant/internal/models"
	"recruitai/assistant/internal/services"
)

type WorkflowHandler struct {
	workflow services.Workflow
}

func NewWorkflowHandler(workflow services.Workflow) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow}
}

// HandleState handles GET /state
func (h *WorkflowHandler) HandleState(c *fiber.Ctx) error {
	return c.JSON(h.workflow.Snapshot())
}

type navigateRequest struct {
	View models.View `json:"view"`
}

// HandleNavigate handles POST /navigate
func (h *WorkflowHandler) HandleNavigate(c *fiber.Ctx) error {
	var req navigateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.workflow.Navigate(req.View); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(h.workflow.Snapshot())
}

// HandleAnalyze handles POST /analyze. A call while an analysis is already
// in flight is accepted and ignored.
func (h *WorkflowHandler) HandleAnalyze(c *fiber.Ctx) error {
	if err := h.workflow.Analyze(); err != nil {
		if errors.Is(err, services.ErrAnalyzeNotReady) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Analysis started",
	})
}

// HandleCandidate handles GET /candidate
func (h *WorkflowHandler) HandleCandidate(c *fiber.Ctx) error {
	return c.JSON(h.workflow.Candidate())
}

// HandleApprovalOpen handles POST /approval/open
func (h *WorkflowHandler) HandleApprovalOpen(c *fiber.Ctx) error {
	h.workflow.OpenApproval()
	return c.JSON(h.workflow.Snapshot())
}

type draftRequest struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	AutoReply bool   `json:"auto_reply"`
}

// HandleDraftUpdate handles PUT /approval/draft
func (h *WorkflowHandler) HandleDraftUpdate(c *fiber.Ctx) error {
	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.workflow.UpdateDraft(req.Subject, req.Body, req.AutoReply); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(h.workflow.Snapshot())
}

// HandleSend handles POST /approval/send
func (h *WorkflowHandler) HandleSend(c *fiber.Ctx) error {
	if err := h.workflow.Send(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Sending email",
	})
}

// HandleApprovalClose handles POST /approval/close
func (h *WorkflowHandler) HandleApprovalClose(c *fiber.Ctx) error {
	h.workflow.CloseApproval()
	return c.JSON(h.workflow.Snapshot())
}
