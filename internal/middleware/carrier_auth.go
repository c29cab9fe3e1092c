package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// CarrierIDKey is the fiber.Ctx local under which the authenticated carrier
// id is stored. Handlers read it once and pass it explicitly into every
// service call; nothing downstream reads the token again.
const CarrierIDKey = "carrierID"

// CarrierAuth authenticates the carrier scope of a request. With a secret it
// expects a Bearer JWT carrying a carrierId claim; with an empty secret
// (memory-store development mode) it accepts a plain x-carrier-id header.
func CarrierAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			carrierID := c.Get("x-carrier-id")
			if carrierID == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Missing x-carrier-id header",
				})
			}
			c.Locals(CarrierIDKey, carrierID)
			return c.Next()
		}

		auth := c.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing bearer token",
			})
		}

		token, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}
		carrierID, _ := claims["carrierId"].(string)
		if carrierID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token has no carrier scope",
			})
		}

		c.Locals(CarrierIDKey, carrierID)
		return c.Next()
	}
}

// CarrierID reads the authenticated carrier id set by CarrierAuth.
func CarrierID(c *fiber.Ctx) string {
	id, _ := c.Locals(CarrierIDKey).(string)
	return id
}
