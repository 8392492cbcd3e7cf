package controller

import (
	"ajo-circle-be/internal/dto"
	"ajo-circle-be/internal/pkg/serverutils"
	"ajo-circle-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGroupController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	SlotBoard(ctx *fiber.Ctx) error
	Reserve(ctx *fiber.Ctx) error
	Members(ctx *fiber.Ctx) error
	Cycles(ctx *fiber.Ctx) error
	Transactions(ctx *fiber.Ctx) error
}

type groupController struct {
	groupService      service.IGroupService
	slotService       service.ISlotService
	membershipService service.IMembershipService
	cycleService      service.ICycleService
}

func NewGroupController(
	groupService service.IGroupService,
	slotService service.ISlotService,
	membershipService service.IMembershipService,
	cycleService service.ICycleService,
) IGroupController {
	return &groupController{
		groupService:      groupService,
		slotService:       slotService,
		membershipService: membershipService,
		cycleService:      cycleService,
	}
}

func (c *groupController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/groups")
	h.Get("/", c.GetAll)
	h.Get("/:id", c.Show)
	h.Get("/:id/slots", c.SlotBoard)

	// Protected Routes
	h.Post("/", serverutils.JwtMiddleware, c.Create)
	h.Post("/:id/reserve", serverutils.JwtMiddleware, c.Reserve)
	h.Get("/:id/members", serverutils.JwtMiddleware, c.Members)
	h.Get("/:id/cycles", serverutils.JwtMiddleware, c.Cycles)
	h.Get("/:id/transactions", serverutils.JwtMiddleware, c.Transactions)
}

func (c *groupController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateGroupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	userId, ok := currentUserId(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	res, err := c.groupService.Create(ctx.Context(), userId, &req)
	if err != nil {
		code := statusForServiceError(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Group created", res))
}

func (c *groupController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.groupService.GetAll(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Group list", res))
}

func (c *groupController) Show(ctx *fiber.Ctx) error {
	groupId, err := parseIdParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid group id"))
	}
	res, err := c.groupService.Show(ctx.Context(), groupId)
	if err != nil {
		code := statusForServiceError(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Group detail", res))
}

func (c *groupController) SlotBoard(ctx *fiber.Ctx) error {
	groupId, err := parseIdParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid group id"))
	}
	viewerId, _ := currentUserId(ctx)

	res, err := c.slotService.SlotBoard(ctx.Context(), groupId, viewerId)
	if err != nil {
		code := statusForServiceError(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Slot board", res))
}

func (c *groupController) Reserve(ctx *fiber.Ctx) error {
	groupId, err := parseIdParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid group id"))
	}

	var req dto.ReserveSlotRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	userId, ok := currentUserId(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	res, err := c.slotService.Reserve(ctx.Context(), userId, groupId, req.SlotNumber)
	if err != nil {
		code := statusForServiceError(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Slot reserved", res))
}

func (c *groupController) Members(ctx *fiber.Ctx) error {
	groupId, err := parseIdParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid group id"))
	}
	res, err := c.membershipService.ListMembers(ctx.Context(), groupId)
	if err != nil {
		code := statusForServiceError(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Member list", res))
}

func (c *groupController) Cycles(ctx *fiber.Ctx) error {
	groupId, err := parseIdParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid group id"))
	}
	res, err := c.cycleService.ListCycles(ctx.Context(), groupId)
	if err != nil {
		code := statusForServiceError(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Cycle list", res))
}

func (c *groupController) Transactions(ctx *fiber.Ctx) error {
	groupId, err := parseIdParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid group id"))
	}
	res, err := c.groupService.ListTransactions(ctx.Context(), groupId)
	if err != nil {
		code := statusForServiceError(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Transaction list", res))
}

func parseIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(ctx.Params("id"))
}
