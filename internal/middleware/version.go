package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// APIVersion is the version this server implements
const APIVersion = "1.0.0"

// VersionMiddleware parses the X-Api-Version header into c.Locals("apiVersion")
// and echoes the served version back in the response header.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", APIVersion)

		// Support version aliases
		switch version {
		case "1", "1.0":
			version = APIVersion
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", APIVersion)

		return c.Next()
	}
}
