package server

import (
	"vendio/internal/models"
	"vendio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyPaymentLinks handles GET /api/payment-links
// @Summary List own payment links
// @Tags payment-links
// @Produce json
// @Success 200 {array} models.PaymentLink
// @Security ApiKeyAuth
// @Router /payment-links [get]
func (s *Server) GetMyPaymentLinks(c *fiber.Ctx) error {
	links, err := s.linkService.ListMyLinks(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(links)
}

// CreatePaymentLink handles POST /api/payment-links
// @Summary Create a payment link
// @Tags payment-links
// @Accept json
// @Produce json
// @Param request body service.CreatePaymentLinkInput true "Payment link"
// @Success 201 {object} models.PaymentLink
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /payment-links [post]
func (s *Server) CreatePaymentLink(c *fiber.Ctx) error {
	var req service.CreatePaymentLinkInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.UserID = currentUserID(c)

	link, err := s.linkService.CreatePaymentLink(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

// GetPaymentLink handles GET /api/payment-links/:id
// @Summary Get one of your payment links
// @Tags payment-links
// @Produce json
// @Param id path int true "Payment link ID"
// @Success 200 {object} models.PaymentLink
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /payment-links/{id} [get]
func (s *Server) GetPaymentLink(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	link, err := s.linkService.GetOwnedLink(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(link)
}

// UpdatePaymentLink handles PUT /api/payment-links/:id
// @Summary Update a payment link
// @Tags payment-links
// @Accept json
// @Produce json
// @Param id path int true "Payment link ID"
// @Param request body service.UpdatePaymentLinkInput true "Fields to update"
// @Success 200 {object} models.PaymentLink
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /payment-links/{id} [put]
func (s *Server) UpdatePaymentLink(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdatePaymentLinkInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.UserID = currentUserID(c)
	req.LinkID = id

	link, err := s.linkService.UpdatePaymentLink(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(link)
}

// DeletePaymentLink handles DELETE /api/payment-links/:id
// @Summary Delete a payment link
// @Tags payment-links
// @Produce json
// @Param id path int true "Payment link ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /payment-links/{id} [delete]
func (s *Server) DeletePaymentLink(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.linkService.DeletePaymentLink(c.UserContext(), currentUserID(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment link deleted"})
}

// GetPublicPaymentLink handles GET /api/pay/:slug
// @Summary Get a public payment link page by slug
// @Description Inactive links read as not found.
// @Tags payment-links
// @Produce json
// @Param slug path string true "Payment link slug"
// @Success 200 {object} models.PaymentLink
// @Failure 404 {object} models.ErrorResponse
// @Router /pay/{slug} [get]
func (s *Server) GetPublicPaymentLink(c *fiber.Ctx) error {
	link, err := s.linkService.GetPublicLink(c.UserContext(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(link)
}
