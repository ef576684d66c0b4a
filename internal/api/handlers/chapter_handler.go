package handlers

import (
	"NovelNest-Backend/domain"
	"NovelNest-Backend/internal/api/presenters"
	"NovelNest-Backend/pkg/chapter"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ChapterHandler interface {
		UnlockChapter(c *fiber.Ctx) error
		GetUnlockedChapters(c *fiber.Ctx) error
	}

	chapterHandler struct {
		chapterService chapter.ChapterService
		validator      *validator.Validate
	}
)

func NewChapterHandler(chapterService chapter.ChapterService, validator *validator.Validate) ChapterHandler {
	return &chapterHandler{
		chapterService: chapterService,
		validator:      validator,
	}
}

func (h *chapterHandler) UnlockChapter(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.UnlockChapterRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUnlockChapter, err)
	}

	resp, err := h.chapterService.UnlockChapter(c.Context(), *req, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrChapterNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUnlockChapter, err)
		case errors.Is(err, domain.ErrInsufficientBalance):
			return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedUnlockChapter, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUnlockChapter, err)
		}
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessUnlockChapter)
}

func (h *chapterHandler) GetUnlockedChapters(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	unlocks, count, err := h.chapterService.GetUnlockedChapters(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetUnlocks, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"unlocks": unlocks,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetUnlocks)
}
