package handlers

import (
	"NovelNest-Backend/domain"
	"NovelNest-Backend/internal/api/presenters"
	"NovelNest-Backend/pkg/donation"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DonationHandler interface {
		Donate(c *fiber.Ctx) error
		GetUserDonations(c *fiber.Ctx) error
	}

	donationHandler struct {
		donationService donation.DonationService
		validator       *validator.Validate
	}
)

func NewDonationHandler(donationService donation.DonationService, validator *validator.Validate) DonationHandler {
	return &donationHandler{
		donationService: donationService,
		validator:       validator,
	}
}

func (h *donationHandler) Donate(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.DonateRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDonate, err)
	}

	resp, err := h.donationService.Donate(c.Context(), *req, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientBalance):
			return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedDonate, err)
		case errors.Is(err, domain.ErrRecipientNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDonate, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDonate, err)
		}
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusCreated, domain.MessageSuccessDonate)
}

func (h *donationHandler) GetUserDonations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	donations, count, err := h.donationService.GetUserDonations(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"donations": donations,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetDonations)
}
