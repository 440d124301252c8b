package middleware

import (
	"strings"
	"time"

	"vendio/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "auth-token"

// PathClass classifies a request path for the edge gate.
type PathClass int

const (
	// PathPublic requires no credential and never consults the session cookie.
	PathPublic PathClass = iota
	// PathAuthPage is a sign-in/sign-up page.
	PathAuthPage
	// PathProtected requires a valid session token.
	PathProtected
)

// TokenState is the edge gate's view of the presented session cookie.
type TokenState int

const (
	TokenAbsent TokenState = iota
	TokenInvalid
	TokenValid
)

// GateAction is the edge gate's decision for a request.
type GateAction int

const (
	GateContinue GateAction = iota
	GateRedirectSignin
	GateRedirectHome
)

// GateDecision is the outcome of the edge gate state machine.
type GateDecision struct {
	Action      GateAction
	ClearCookie bool
}

const (
	signinPath = "/auth/signin"
	homePath   = "/"
	adminPath  = "/admin"
)

var publicExact = map[string]struct{}{
	"/":            {},
	"/favicon.ico": {},
	"/robots.txt":  {},
}

var publicPrefixes = []string{
	"/store/",  // public storefront pages
	"/bio/",    // public link-in-bio pages
	"/pay/",    // public payment-link pages
	"/static/", // static assets
	"/assets/",
}

var authPagePrefixes = []string{
	"/auth/signin",
	"/auth/signup",
}

// ClassifyPath assigns a path class. Exact matches and prefix matches
// against the public allowlist win; auth pages come next; everything else
// is protected.
func ClassifyPath(path string) PathClass {
	if _, ok := publicExact[path]; ok {
		return PathPublic
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return PathPublic
		}
	}
	for _, p := range authPagePrefixes {
		if strings.HasPrefix(path, p) {
			return PathAuthPage
		}
	}
	return PathProtected
}

// Decide applies the edge gate transition table. role is the token's role
// claim and is only consulted for role-scoped prefixes.
func Decide(class PathClass, state TokenState, role, path string) GateDecision {
	switch class {
	case PathPublic:
		return GateDecision{Action: GateContinue}
	case PathAuthPage:
		if state == TokenValid {
			// Already signed in.
			return GateDecision{Action: GateRedirectHome}
		}
		return GateDecision{Action: GateContinue}
	default:
		switch state {
		case TokenAbsent:
			return GateDecision{Action: GateRedirectSignin}
		case TokenInvalid:
			return GateDecision{Action: GateRedirectSignin, ClearCookie: true}
		default:
			if strings.HasPrefix(path, adminPath) && role != "admin" {
				return GateDecision{Action: GateRedirectHome}
			}
			return GateDecision{Action: GateContinue}
		}
	}
}

// verifyCookie parses the session token and returns its state and role claim.
// A malformed token is always treated as "no identity".
func verifyCookie(secret, raw string) (TokenState, string) {
	if raw == "" {
		return TokenAbsent, ""
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return TokenInvalid, ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenInvalid, ""
	}
	if sub, _ := claims["sub"].(string); sub == "" {
		return TokenInvalid, ""
	}
	role, _ := claims["role"].(string)
	return TokenValid, role
}

// EdgeGate returns the page-route gate. API routes carry their own guard
// (Server.AuthRequired) and are skipped here.
func EdgeGate(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if strings.HasPrefix(path, "/api") ||
			strings.HasPrefix(path, "/metrics") ||
			strings.HasPrefix(path, "/health") {
			return c.Next()
		}

		class := ClassifyPath(path)
		// PUBLIC paths never consult the cookie.
		if class == PathPublic {
			return c.Next()
		}

		state, role := verifyCookie(cfg.JWTSecret, c.Cookies(SessionCookieName))
		decision := Decide(class, state, role, path)

		if decision.ClearCookie {
			ClearSessionCookie(c, cfg)
		}

		switch decision.Action {
		case GateRedirectSignin:
			return c.Redirect(signinPath, fiber.StatusFound)
		case GateRedirectHome:
			return c.Redirect(homePath, fiber.StatusFound)
		default:
			return c.Next()
		}
	}
}

// SetSessionCookie attaches the session token to the response.
func SetSessionCookie(c *fiber.Ctx, cfg *config.Config, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *fiber.Ctx, cfg *config.Config) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
