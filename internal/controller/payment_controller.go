package controller

import (
	"errors"

	"ajo-circle-be/internal/dto"
	"ajo-circle-be/internal/pkg/serverutils"
	"ajo-circle-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	Initiate(ctx *fiber.Ctx) error
	Verify(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
}

func NewPaymentController(service service.IPaymentService) IPaymentController {
	return &paymentController{service: service}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payments")
	h.Post("/webhook", c.Webhook)

	// Protected Routes
	h.Post("/initiate", serverutils.JwtMiddleware, c.Initiate)
	h.Get("/verify/:reference", serverutils.JwtMiddleware, c.Verify)
}

func (c *paymentController) Initiate(ctx *fiber.Ctx) error {
	var req dto.InitiatePaymentRequest
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

	res, err := c.service.Initiate(ctx.Context(), userId, &req)
	if err != nil {
		code := statusForServiceError(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment initiated", res))
}

func (c *paymentController) Verify(ctx *fiber.Ctx) error {
	reference := ctx.Params("reference")
	if reference == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "reference is required"))
	}

	res, err := c.service.Verify(ctx.Context(), reference)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGatewayUnreachable):
			// Verification could not complete; the payment stays pending
			// and the client should poll again.
			return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Verification pending, retry later", res))
		case errors.Is(err, service.ErrAmountMismatch):
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
		default:
			code := statusForServiceError(err)
			return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Verification result", res))
}

func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	// Signature scheme is provider specific: paystack sends a header over
	// the raw body, midtrans embeds the signature in the payload.
	signature := ctx.Get("x-paystack-signature")
	body := ctx.Body()

	if err := c.service.HandleWebhook(ctx.Context(), signature, body); err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			return ctx.SendStatus(fiber.StatusUnauthorized)
		}
		// 5xx so the gateway retries the notification.
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}
	return ctx.SendStatus(fiber.StatusOK)
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, bool) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		if uid, ok := ctx.Locals("user_id").(uuid.UUID); ok {
			return uid, true
		}
		return uuid.Nil, false
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userId, true
}

func statusForServiceError(err error) int {
	switch {
	case errors.Is(err, service.ErrGroupNotFound), errors.Is(err, service.ErrPaymentNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrSlotUnavailable),
		errors.Is(err, service.ErrNoSlotsAvailable),
		errors.Is(err, service.ErrGroupNotJoinable),
		errors.Is(err, service.ErrAlreadyMember):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrAmountMismatch):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidSignature):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrGatewayUnreachable):
		return fiber.StatusAccepted
	default:
		return fiber.StatusInternalServerError
	}
}
