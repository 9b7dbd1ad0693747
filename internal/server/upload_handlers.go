package server

import (
	"mingle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ServeUpload handles GET /uploads/:filename. The route is public but
// double-gated: names ending in active content extensions are always refused,
// and the extension must be on the same allow-list enforced at save time.
func (s *Server) ServeUpload(c *fiber.Ctx) error {
	name := c.Params("filename")
	if err := s.uploads.CheckServable(name); err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden, models.NewForbiddenError("File type not allowed"))
	}
	return c.SendFile(s.uploads.Path(name))
}
