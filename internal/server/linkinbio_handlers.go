package server

import (
	"vendio/internal/models"
	"vendio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyBio handles GET /api/linkinbio
// @Summary Get own link-in-bio page
// @Tags linkinbio
// @Produce json
// @Success 200 {object} models.LinkInBio
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /linkinbio [get]
func (s *Server) GetMyBio(c *fiber.Ctx) error {
	bio, err := s.bioService.GetMyBio(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(bio)
}

// UpdateMyBio handles PUT /api/linkinbio
// @Summary Update own link-in-bio page
// @Description Updates title/theme and, when links are supplied, replaces the whole ordered link list.
// @Tags linkinbio
// @Accept json
// @Produce json
// @Param request body service.UpdateLinkInBioInput true "Bio page fields"
// @Success 200 {object} models.LinkInBio
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /linkinbio [put]
func (s *Server) UpdateMyBio(c *fiber.Ctx) error {
	var req service.UpdateLinkInBioInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.UserID = currentUserID(c)

	bio, err := s.bioService.UpdateBio(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(bio)
}

// GetPublicBio handles GET /api/bio/:username
// @Summary Get a public link-in-bio page
// @Description The page slug is derived from the username at signup. Inactive links are filtered out.
// @Tags linkinbio
// @Produce json
// @Param username path string true "Bio page slug"
// @Success 200 {object} models.LinkInBio
// @Failure 404 {object} models.ErrorResponse
// @Router /bio/{username} [get]
func (s *Server) GetPublicBio(c *fiber.Ctx) error {
	bio, err := s.bioService.GetPublicBio(c.UserContext(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(bio)
}
