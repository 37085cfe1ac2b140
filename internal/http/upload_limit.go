package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// LimitUploadSize rejects a request whose declared body exceeds maxBytes
// before the multipart form is parsed. The server body limit stays above
// maxBytes so this check answers first.
func LimitUploadSize(maxBytes int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if length := c.Request().Header.ContentLength(); length > maxBytes {
			return errorResponse(c, fiber.StatusRequestEntityTooLarge,
				fmt.Sprintf("Upload exceeds the %d MB limit", maxBytes/(1024*1024)), codeFileTooLarge)
		}
		return c.Next()
	}
}
