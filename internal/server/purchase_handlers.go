package server

import (
	"vendio/internal/models"
	"vendio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePurchase handles POST /api/payment-link/purchase
// @Summary Buy through a payment link
// @Description Records a COMPLETED purchase against the link, with an optional tip when the link allows it.
// @Tags purchases
// @Accept json
// @Produce json
// @Param request body service.CreatePurchaseInput true "Purchase"
// @Success 201 {object} models.Purchase
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /payment-link/purchase [post]
func (s *Server) CreatePurchase(c *fiber.Ctx) error {
	var req service.CreatePurchaseInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	purchase, err := s.purchaseService.CreatePurchase(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(purchase)
}

// GetMyPurchases handles GET /api/purchases
// @Summary List purchases across all of your payment links
// @Tags purchases
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{purchases=[]models.Purchase,total=int}
// @Security ApiKeyAuth
// @Router /purchases [get]
func (s *Server) GetMyPurchases(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	purchases, total, err := s.purchaseService.ListMyPurchases(
		c.UserContext(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"purchases": purchases,
		"total":     total,
		"limit":     p.Limit,
		"offset":    p.Offset,
	})
}

// GetLinkPurchases handles GET /api/payment-links/:id/purchases
// @Summary List purchases for one of your payment links
// @Tags purchases
// @Produce json
// @Param id path int true "Payment link ID"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{purchases=[]models.Purchase,total=int}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /payment-links/{id}/purchases [get]
func (s *Server) GetLinkPurchases(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	purchases, total, err := s.purchaseService.ListLinkPurchases(
		c.UserContext(), currentUserID(c), id, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"purchases": purchases,
		"total":     total,
		"limit":     p.Limit,
		"offset":    p.Offset,
	})
}
