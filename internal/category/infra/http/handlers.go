package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lmoreau/auctionhouse/internal/category/domain"
	"github.com/lmoreau/auctionhouse/internal/shared/auth"
)

// CategoryHandler exposes the category taxonomy, writes are admin only
type CategoryHandler struct {
	categories domain.CategoryRepository
}

func NewCategoryHandler(categories domain.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) RegisterRoutes(api fiber.Router, authMW fiber.Handler) {
	categories := api.Group("/categories")
	categories.Get("/", h.list)
	categories.Get("/:id", h.get)
	categories.Post("/", authMW, auth.RequireAdmin(), h.create)
	categories.Put("/:id", authMW, auth.RequireAdmin(), h.update)
	categories.Delete("/:id", authMW, auth.RequireAdmin(), h.delete)
}

func (h *CategoryHandler) list(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.Context())
	if err != nil {
		return serverError(c)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(categories), "data": categories})
}

func (h *CategoryHandler) get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid category ID")
	}
	category, err := h.categories.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return notFound(c)
		}
		return serverError(c)
	}
	return c.JSON(fiber.Map{"success": true, "data": category})
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *CategoryHandler) create(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return badRequest(c, "name is required")
	}

	if existing, err := h.categories.GetByName(c.Context(), req.Name); err == nil && existing != nil {
		return badRequest(c, "category already exists")
	}

	category := &domain.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.categories.Create(c.Context(), category); err != nil {
		return serverError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": category})
}

func (h *CategoryHandler) update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid category ID")
	}
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	category, err := h.categories.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return notFound(c)
		}
		return serverError(c)
	}

	if req.Name != "" && req.Name != category.Name {
		if existing, err := h.categories.GetByName(c.Context(), req.Name); err == nil && existing != nil {
			return badRequest(c, "category name already exists")
		}
		category.Name = req.Name
	}
	if req.Description != "" {
		category.Description = req.Description
	}

	if err := h.categories.Update(c.Context(), category); err != nil {
		return serverError(c)
	}
	return c.JSON(fiber.Map{"success": true, "data": category})
}

func (h *CategoryHandler) delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid category ID")
	}
	if err := h.categories.Delete(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return notFound(c)
		}
		return serverError(c)
	}
	return c.JSON(fiber.Map{"success": true, "message": "category removed successfully"})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": message})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "category not found"})
}

func serverError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "server error"})
}
