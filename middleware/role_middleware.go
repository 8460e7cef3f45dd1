package middleware

import (
	authutils "campus-workflow-backend/lib/utils/auth-utils"
	"campus-workflow-backend/models"
	apimodels "campus-workflow-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		return sub.(string)
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.Role {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.Role(stringRole)
		}
	}
	return ""
}

// GetUserCategory returns the general secretary sub-category (technical,
// cultural, sports); empty for every other role.
func GetUserCategory(ctx *fiber.Ctx) models.EventCategory {
	claims := authutils.GetClaims(ctx)
	if category, exist := claims["category"]; exist {
		if stringCategory, ok := category.(string); ok && stringCategory != "" {
			return models.EventCategory(stringCategory)
		}
	}
	return ""
}

func OversightRoleRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !GetUserRole(ctx).IsOversight() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation is not available"))
		}
		return ctx.Next()
	}
}
