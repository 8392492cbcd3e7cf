package controller

import (
	"ajo-circle-be/internal/pkg/serverutils"
	"ajo-circle-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IScanController interface {
	RegisterRoutes(r fiber.Router)
	Run(ctx *fiber.Ctx) error
}

type scanController struct {
	penaltyService service.IPenaltyService
}

func NewScanController(penaltyService service.IPenaltyService) IScanController {
	return &scanController{penaltyService: penaltyService}
}

func (c *scanController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/internal")
	h.Post("/scan", serverutils.JwtMiddleware, c.Run)
}

// Run is the scheduled trigger: penalty scan plus a cycle completion
// attempt for every active group. Safe to invoke repeatedly.
func (c *scanController) Run(ctx *fiber.Ctx) error {
	res, err := c.penaltyService.RunScheduledScan(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Scan completed", res))
}
