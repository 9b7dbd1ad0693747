package server

import (
	"mingle/internal/models"
	"mingle/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Friends handles GET and POST /friends/:username: adding a directed friend
// edge and listing the users this user has added. Only outgoing edges are
// listed even though the stream honors edges in both directions.
func (s *Server) Friends(c *fiber.Ctx) error {
	sess := s.currentSession(c)
	if done, err := s.redirectToCanonical(c, sess, "/friends/"+sess.Username); done {
		return err
	}

	if c.Method() == fiber.MethodPost {
		var form friendForm
		if err := c.BodyParser(&form); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid form submission"))
		}
		if form.validate().Ok() {
			if err := s.addFriend(c, sess, form.Username); err != nil {
				return err
			}
		}
	}

	edges, err := s.friendRepo.ListFriends(c.UserContext(), sess.UserID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return s.renderPage(c, sess, "Friends", fiber.Map{
		"username": sess.Username,
		"friends":  edges,
	})
}

// addFriend runs the friend checks and flashes the outcome; the caller always
// falls through to the list render, which drains the notice.
func (s *Server) addFriend(c *fiber.Ctx, sess *session.Session, username string) error {
	ctx := c.UserContext()

	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	switch {
	case target == nil:
		sess.Flash(noticeWarning, "User does not exist!")
	case target.ID == sess.UserID:
		sess.Flash(noticeWarning, "You cannot be friends with yourself!")
	default:
		exists, err := s.friendRepo.Exists(ctx, sess.UserID, target.ID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if exists {
			sess.Flash(noticeWarning, "You are already friends with this user!")
			break
		}
		// check-then-insert without a transaction; concurrent adds can both
		// pass the duplicate check
		edge := &models.Friend{UserID: sess.UserID, FriendID: target.ID}
		if err := s.friendRepo.Create(ctx, edge); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		sess.Flash(noticeSuccess, "Friend successfully added!")
	}
	return nil
}
