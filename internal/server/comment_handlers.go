package server

import (
	"errors"
	"fmt"

	"mingle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Comments handles GET and POST /comments/:username/:postID: commenting on a
// post and reading its thread. The post ID comes straight from the URL and is
// not checked against an existing post before inserting.
func (s *Server) Comments(c *fiber.Ctx) error {
	sess := s.currentSession(c)

	postID, err := s.parseID(c, "postID")
	if err != nil {
		if errors.Is(err, errResponseWritten) {
			return nil
		}
		return err
	}

	canonical := fmt.Sprintf("/comments/%s/%d", sess.Username, postID)
	if done, err := s.redirectToCanonical(c, sess, canonical); done {
		return err
	}

	if c.Method() == fiber.MethodPost {
		var form commentForm
		if err := c.BodyParser(&form); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid form submission"))
		}
		if form.validate().Ok() {
			comment := &models.Comment{
				PostID:  postID,
				UserID:  sess.UserID,
				Content: form.Comment,
			}
			if err := s.commentRepo.Create(c.UserContext(), comment); err != nil {
				return models.RespondWithError(c, fiber.StatusInternalServerError, err)
			}
		}
	}

	post, err := s.postRepo.GetWithAuthor(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	comments, err := s.commentRepo.ListForPost(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	// post is null in the payload when the ID never existed; comments against
	// it are still listed.
	return s.renderPage(c, sess, "Comments", fiber.Map{
		"username": sess.Username,
		"post":     post,
		"comments": comments,
	})
}
