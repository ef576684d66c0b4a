package handlers

import (
	"NovelNest-Backend/domain"
	"NovelNest-Backend/internal/api/presenters"
	"NovelNest-Backend/pkg/withdraw"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	WithdrawHandler interface {
		RequestWithdraw(c *fiber.Ctx) error
		CancelWithdraw(c *fiber.Ctx) error
		GetUserWithdrawals(c *fiber.Ctx) error
		ListEligiblePayouts(c *fiber.Ctx) error
		ConfirmPayout(c *fiber.Ctx) error
		RejectPayout(c *fiber.Ctx) error
	}

	withdrawHandler struct {
		withdrawService withdraw.WithdrawService
		validator       *validator.Validate
	}
)

func NewWithdrawHandler(withdrawService withdraw.WithdrawService, validator *validator.Validate) WithdrawHandler {
	return &withdrawHandler{
		withdrawService: withdrawService,
		validator:       validator,
	}
}

func (h *withdrawHandler) RequestWithdraw(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.RequestWithdrawRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRequestWithdraw, err)
	}

	resp, err := h.withdrawService.RequestWithdraw(c.Context(), *req, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientBalance):
			return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedRequestWithdraw, err)
		case errors.Is(err, domain.ErrAmountOutOfBounds), errors.Is(err, domain.ErrFeeExceedsAmount):
			return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedRequestWithdraw, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRequestWithdraw, err)
		}
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusCreated, domain.MessageSuccessRequestWithdraw)
}

func (h *withdrawHandler) CancelWithdraw(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	requestID := c.Params("id")

	if err := h.withdrawService.CancelWithdraw(c.Context(), userID, requestID); err != nil {
		switch {
		case errors.Is(err, domain.ErrWithdrawNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedCancelWithdraw, err)
		case errors.Is(err, domain.ErrAlreadyProcessed):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedCancelWithdraw, err)
		case errors.Is(err, domain.ErrUserNotAllowed):
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedCancelWithdraw, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCancelWithdraw, err)
		}
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessCancelWithdraw)
}

func (h *withdrawHandler) GetUserWithdrawals(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	withdrawals, count, err := h.withdrawService.GetUserWithdrawals(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetWithdrawals, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"withdrawals": withdrawals,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetWithdrawals)
}

func (h *withdrawHandler) ListEligiblePayouts(c *fiber.Ctx) error {
	candidates, err := h.withdrawService.ListEligiblePayouts(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedListPayouts, err)
	}

	return presenters.SuccessResponse(c, candidates, fiber.StatusOK, domain.MessageSuccessListPayouts)
}

func (h *withdrawHandler) ConfirmPayout(c *fiber.Ctx) error {
	adminID := c.Locals("user_id").(string)
	requestID := c.Params("id")

	req := new(domain.ConfirmPayoutRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedConfirmPayout, err)
	}

	if err := h.withdrawService.ConfirmPayout(c.Context(), adminID, requestID, req.CashAmount); err != nil {
		switch {
		case errors.Is(err, domain.ErrWithdrawNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedConfirmPayout, err)
		case errors.Is(err, domain.ErrAlreadyProcessed):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedConfirmPayout, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedConfirmPayout, err)
		}
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessConfirmPayout)
}

func (h *withdrawHandler) RejectPayout(c *fiber.Ctx) error {
	adminID := c.Locals("user_id").(string)
	requestID := c.Params("id")

	if err := h.withdrawService.RejectPayout(c.Context(), adminID, requestID); err != nil {
		switch {
		case errors.Is(err, domain.ErrWithdrawNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedRejectPayout, err)
		case errors.Is(err, domain.ErrAlreadyProcessed):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedRejectPayout, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRejectPayout, err)
		}
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRejectPayout)
}
