package server

import (
	"errors"

	"mingle/internal/models"
	"mingle/internal/session"
	"mingle/internal/uploads"

	"github.com/gofiber/fiber/v2"
)

// Stream handles GET and POST /stream/:username: creating posts and reading
// the feed. The feed shows the user's own posts plus posts by anyone
// connected by a friend edge in either direction.
func (s *Server) Stream(c *fiber.Ctx) error {
	sess := s.currentSession(c)
	if done, err := s.redirectToCanonical(c, sess, "/stream/"+sess.Username); done {
		return err
	}

	if c.Method() == fiber.MethodPost {
		var form postForm
		if err := c.BodyParser(&form); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid form submission"))
		}
		if form.validate().Ok() {
			return s.createPost(c, sess, &form)
		}
		// invalid submissions fall through to the feed render
	}

	posts, err := s.postRepo.GetStream(c.UserContext(), sess.UserID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return s.renderPage(c, sess, "Stream", fiber.Map{
		"username": sess.Username,
		"posts":    posts,
	})
}

func (s *Server) createPost(c *fiber.Ctx, sess *session.Session, form *postForm) error {
	streamURL := "/stream/" + sess.Username

	var image *string
	file, err := c.FormFile("image")
	if err == nil && file != nil && file.Filename != "" {
		src, err := file.Open()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Unable to read uploaded file"))
		}
		defer func() { _ = src.Close() }()

		stored, err := s.uploads.Save(src, file.Filename)
		if errors.Is(err, uploads.ErrDisallowedType) {
			// The rejected image takes the whole submission with it;
			// the text content is not saved either.
			return s.flashAndRedirect(c, sess, noticeWarning, "File type not allowed", streamURL)
		}
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		}
		image = &stored
	}

	post := &models.Post{
		UserID:  sess.UserID,
		Content: form.Content,
		Image:   image,
	}
	if err := s.postRepo.Create(c.UserContext(), post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Redirect(streamURL, fiber.StatusSeeOther)
}
