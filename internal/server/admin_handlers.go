package server

import (
	"vendio/internal/models"
	"vendio/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// AdminListOrders handles GET /api/admin/orders
// @Summary List orders across all stores
// @Tags admin
// @Produce json
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{orders=[]models.Order,total=int}
// @Failure 403 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/orders [get]
func (s *Server) AdminListOrders(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	query := s.db.WithContext(c.UserContext()).Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	var orders []models.Order
	if err := query.
		Preload("Items").
		Order("created_at DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&orders).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"orders": orders,
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// AdminListPurchases handles GET /api/admin/purchases
// @Summary List payment-link purchases across all creators
// @Tags admin
// @Produce json
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{purchases=[]models.Purchase,total=int}
// @Failure 403 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/purchases [get]
func (s *Server) AdminListPurchases(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	query := s.db.WithContext(c.UserContext()).Model(&models.Purchase{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	var purchases []models.Purchase
	if err := query.
		Preload("PaymentLink").
		Order("created_at DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&purchases).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"purchases": purchases,
		"total":     total,
		"limit":     p.Limit,
		"offset":    p.Offset,
	})
}

// AdminUpdateOrderStatus handles PUT /api/admin/orders/:id/status
// @Summary Transition any order as an operator
// @Description Admin action for refund marking (COMPLETED to REFUNDED) and support overrides; transitions still follow the status table.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body object{status=string} true "Target status"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/orders/{id}/status [put]
func (s *Server) AdminUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	order, err := s.orderRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if !models.ValidStatusTransition(order.Status, req.Status) {
		return models.RespondWithAppError(c, models.NewConflictError(
			"Cannot transition order from "+order.Status+" to "+req.Status))
	}

	from := order.Status
	order.Status = req.Status
	if err := s.orderRepo.Update(c.UserContext(), order); err != nil {
		return models.RespondWithAppError(c, err)
	}

	observability.OrderStatusTransitions.WithLabelValues(from, order.Status).Inc()
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(c.UserContext(), order, from)
	}

	return c.JSON(order)
}

// AdminListFeatureFlags handles GET /api/admin/feature-flags
// @Summary Show the configured feature flag set
// @Tags admin
// @Produce json
// @Success 200 {object} object{raw=string,flags=map[string]string}
// @Failure 403 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/feature-flags [get]
func (s *Server) AdminListFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"raw":   s.flags.Raw(),
		"flags": s.flags.Snapshot(),
	})
}
