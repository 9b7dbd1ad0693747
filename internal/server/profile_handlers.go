package server

import (
	"mingle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Profile handles GET and POST /profile/:username: viewing and editing the
// biography fields. Every submission overwrites all six fields, blanks
// included.
func (s *Server) Profile(c *fiber.Ctx) error {
	sess := s.currentSession(c)
	profileURL := "/profile/" + sess.Username
	if done, err := s.redirectToCanonical(c, sess, profileURL); done {
		return err
	}

	if c.Method() == fiber.MethodPost {
		var form profileForm
		if err := c.BodyParser(&form); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid form submission"))
		}
		if err := s.userRepo.UpdateProfile(c.UserContext(), sess.UserID, form.fields()); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		return c.Redirect(profileURL, fiber.StatusSeeOther)
	}

	user, err := s.userRepo.GetByID(c.UserContext(), sess.UserID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return s.renderPage(c, sess, "Profile", fiber.Map{
		"username": sess.Username,
		"user":     user,
	})
}
