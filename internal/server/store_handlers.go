package server

import (
	"vendio/internal/models"
	"vendio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyStore handles GET /api/store
// @Summary Get own store
// @Tags store
// @Produce json
// @Success 200 {object} models.Store
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /store [get]
func (s *Server) GetMyStore(c *fiber.Ctx) error {
	store, err := s.storeService.GetMyStore(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(store)
}

// CreateMyStore handles POST /api/store
// @Summary Create own store
// @Description Creates the caller's store with a slug allocated from the name. One store per creator; a second create conflicts.
// @Tags store
// @Accept json
// @Produce json
// @Param request body object{name=string} true "Store name"
// @Success 201 {object} models.Store
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /store [post]
func (s *Server) CreateMyStore(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	store, err := s.storeService.CreateStore(c.UserContext(), currentUserID(c), req.Name)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(store)
}

// UpdateMyStore handles PUT /api/store
// @Summary Update own store
// @Description Update store name, description, logo or active flag. The slug is immutable.
// @Tags store
// @Accept json
// @Produce json
// @Param request body service.UpdateStoreInput true "Store fields to update"
// @Success 200 {object} models.Store
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /store [put]
func (s *Server) UpdateMyStore(c *fiber.Ctx) error {
	var req service.UpdateStoreInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.UserID = currentUserID(c)

	store, err := s.storeService.UpdateStore(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(store)
}

// GetPublicStore handles GET /api/stores/:slug
// @Summary Get a public storefront by slug
// @Description Returns the store with its active products. Inactive stores read as not found.
// @Tags store
// @Produce json
// @Param slug path string true "Store slug"
// @Success 200 {object} models.Store
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{slug} [get]
func (s *Server) GetPublicStore(c *fiber.Ctx) error {
	store, err := s.storeService.GetPublicStore(c.UserContext(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(store)
}
