package middleware

import (
	"strconv"

	"gcal-sync/core/config"
	"gcal-sync/core/controller"
	"gcal-sync/core/errors"
	"gcal-sync/core/logger"
	"gcal-sync/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"

	RoleAdmin = "admin"
)

// SessionClaims is the session token payload issued by the host application.
// Subject carries the host user's integer id as a decimal string.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Middleware struct {
	jwtSecret []byte
	base      controller.BaseController
}

func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{
		jwtSecret: []byte(cfg.Auth.JWTSecret),
		base:      controller.NewBaseController(),
	}
}

// AuthMiddleware requires a valid session token and stores the host user id
// and role on the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c)
			if err != nil {
				return m.base.Unauthorized(errors.ErrMissingAuthorizationHeader, "Authentication required")
			}

			claims := new(SessionClaims)
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return m.jwtSecret, nil
			})
			if err != nil || !parsed.Valid {
				logger.Warn("Middleware:AuthMiddleware:InvalidToken", "error", err)
				return m.base.Unauthorized(errors.ErrInvalidTokenFormat, "Authentication required")
			}

			userID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil || userID <= 0 {
				logger.Warn("Middleware:AuthMiddleware:InvalidSubject", "subject", claims.Subject)
				return m.base.Unauthorized(errors.ErrInvalidTokenFormat, "Authentication required")
			}

			c.Set(ContextUserID, userID)
			c.Set(ContextRole, claims.Role)
			return next(c)
		}
	}
}

// AdminMiddleware allows only sessions carrying the admin role. It must run
// after AuthMiddleware.
func (m *Middleware) AdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			if role != RoleAdmin {
				return m.base.Forbidden(errors.ErrForbidden, "Admins only")
			}
			return next(c)
		}
	}
}

// UserIDFromContext returns the authenticated host user id set by AuthMiddleware.
func UserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(ContextUserID).(int64)
	return id, ok
}
