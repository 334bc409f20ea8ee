package handler

import (
	"github.com/clipscore/api/internal/model"
	"github.com/clipscore/api/internal/service"
	"github.com/clipscore/api/pkg/response"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type AnalyzeHandler struct {
	service   *service.AnalysisService
	validator *validator.Validate
}

func NewAnalyzeHandler(svc *service.AnalysisService, v *validator.Validate) *AnalyzeHandler {
	return &AnalyzeHandler{
		service:   svc,
		validator: v,
	}
}

// Analyze handles POST /api/analyze, a single synchronous round trip that
// turns a script (plus optional video) into a music-generation brief.
func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) error {
	var req model.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Analyze(c.Context(), &req)
	if err != nil {
		return response.AIError(c, err.Error())
	}

	return response.OK(c, result)
}
