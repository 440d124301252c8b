package server

import (
	"fmt"
	"strconv"
	"time"

	"vendio/internal/middleware"
	"vendio/internal/models"
	"vendio/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Signup handles POST /api/auth/signup
// @Summary User signup
// @Description Register a new creator account, provisioning its store and link-in-bio page
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.SignupInput true "Signup request"
// @Success 201 {object} object{token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req service.SignupInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Signup(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	middleware.SetSessionCookie(c, s.config, token, tokenTTL)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Signin handles POST /api/auth/signin
// @Summary User signin
// @Description Authenticate with a wallet address, or with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{wallet_address=string,email=string,password=string} true "Signin credentials"
// @Success 200 {object} object{token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/signin [post]
func (s *Server) Signin(c *fiber.Ctx) error {
	var req struct {
		WalletAddress string `json:"wallet_address"`
		Email         string `json:"email"`
		Password      string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var (
		user *models.User
		err  error
	)
	switch {
	case req.WalletAddress != "":
		// Unknown wallets come back 404 so the client can route the
		// visitor to signup instead of showing a credentials error.
		user, err = s.authService.SigninByWallet(c.UserContext(), req.WalletAddress)
	case req.Email != "":
		user, err = s.authService.SigninByEmail(c.UserContext(), req.Email, req.Password)
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A wallet address or email is required"))
	}
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	middleware.SetSessionCookie(c, s.config, token, tokenTTL)

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/auth/logout
// @Summary User logout
// @Description Clear the session cookie and revoke the token
// @Tags auth
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	// Best-effort revocation: blacklist the jti for the token's remaining
	// lifetime so a copied cookie stops working too.
	raw := c.Cookies(middleware.SessionCookieName)
	if raw != "" && s.redis != nil {
		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err == nil && token.Valid {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				jti, _ := claims["jti"].(string)
				exp, _ := claims["exp"].(float64)
				if jti != "" {
					ttl := time.Until(time.Unix(int64(exp), 0))
					if ttl > 0 {
						s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl)
					}
				}
			}
		}
	}

	middleware.ClearSessionCookie(c, s.config)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// generateToken creates a session JWT for the given user.
func (s *Server) generateToken(user *models.User) (string, error) {
	// Validate secret exists
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":            strconv.FormatUint(uint64(user.ID), 10), // Subject (user ID as string)
		"email":          user.Email,
		"wallet_address": user.WalletAddress,
		"role":           user.Role,
		"iss":            tokenIssuer,
		"aud":            tokenAudience,
		"exp":            now.Add(tokenTTL).Unix(),
		"iat":            now.Unix(),
		"nbf":            now.Unix(),
		"jti":            s.generateJTI(), // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
