// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopgram/shopgram_backend/models"
)

// RequireRole checks if the authenticated user has one of the allowed roles
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := ExtractRole(c)

			if role == "" {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication failed: role not found",
				})
			}

			for _, allowed := range allowedRoles {
				if role == allowed {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your role",
			})
		}
	}
}

// ExtractRole returns the role stored in context by the JWT middleware
func ExtractRole(c echo.Context) string {
	if role, ok := c.Get("role").(string); ok {
		return role
	}
	if claims := GetUserFromToken(c); claims != nil {
		return claims.Role
	}
	return ""
}

// GetUserIDFromToken returns the session user's ObjectID, or NilObjectID when
// the session is missing or malformed.
func GetUserIDFromToken(c echo.Context) primitive.ObjectID {
	userID, ok := c.Get("userId").(string)
	if !ok || userID == "" {
		if claims := GetUserFromToken(c); claims != nil {
			userID = claims.UserID
		}
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID
	}
	return objID
}
