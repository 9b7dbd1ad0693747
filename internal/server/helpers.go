package server

import (
	"context"
	"errors"
	"time"

	"mingle/internal/middleware"
	"mingle/internal/models"
	"mingle/internal/session"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a helper already wrote the response and the
// handler should return without writing another.
var errResponseWritten = errors.New("response already written")

func (s *Server) sessionFromRequest(c *fiber.Ctx) (*session.Session, error) {
	return s.sessions.Get(c.UserContext(), c.Cookies(session.CookieName))
}

func (s *Server) setSessionCookie(c *fiber.Ctx, sess *session.Session) error {
	token, err := s.sessions.Token(sess)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(s.sessions.TTL()),
	})
	return nil
}

// ensureSession returns the request's session, creating an anonymous one and
// setting its cookie when the client has none (or presents a dead token).
func (s *Server) ensureSession(c *fiber.Ctx) (*session.Session, error) {
	sess, err := s.sessionFromRequest(c)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}

	sess, err = s.sessions.Create(c.UserContext())
	if err != nil {
		return nil, err
	}
	if err := s.setSessionCookie(c, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// RequireSession gates a route group on an authenticated session. Anonymous
// visitors get a warning notice and a redirect to the index page.
func (s *Server) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := s.ensureSession(c)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		}

		if !sess.Authenticated() {
			sess.Flash(noticeWarning, "Please sign in.")
			if err := s.sessions.Save(c.UserContext(), sess); err != nil {
				return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
			}
			return c.Redirect("/", fiber.StatusSeeOther)
		}

		c.Locals("session", sess)
		c.Locals("userID", sess.UserID)
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, sess.UserID))
		return c.Next()
	}
}

// currentSession returns the session stored by RequireSession. Only valid on
// gated routes.
func (s *Server) currentSession(c *fiber.Ctx) *session.Session {
	return c.Locals("session").(*session.Session)
}

// redirectToCanonical enforces that the username in the URL matches the
// session. GETs to someone else's URL are redirected to the caller's own
// canonical location; POSTs fall through and act as the session user
// regardless of what the URL says.
func (s *Server) redirectToCanonical(c *fiber.Ctx, sess *session.Session, canonical string) (bool, error) {
	if c.Params("username") == sess.Username {
		return false, nil
	}
	if c.Method() == fiber.MethodGet {
		return true, c.Redirect(canonical, fiber.StatusSeeOther)
	}
	return false, nil
}

// renderPage writes the JSON page payload, draining pending flash notices
// into it. The drained state is persisted so a notice is shown exactly once.
func (s *Server) renderPage(c *fiber.Ctx, sess *session.Session, title string, data fiber.Map) error {
	flashes := []session.Flash{}
	if sess != nil {
		if popped := sess.PopFlashes(); len(popped) > 0 {
			flashes = popped
			if err := s.sessions.Save(c.UserContext(), sess); err != nil {
				return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
			}
		}
	}

	payload := fiber.Map{
		"title":   title,
		"flashes": flashes,
	}
	for k, v := range data {
		payload[k] = v
	}
	return c.JSON(payload)
}

// flashAndRedirect persists a notice and sends the client elsewhere.
func (s *Server) flashAndRedirect(c *fiber.Ctx, sess *session.Session, category, message, location string) error {
	sess.Flash(category, message)
	if err := s.sessions.Save(c.UserContext(), sess); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	return c.Redirect(location, fiber.StatusSeeOther)
}

// parseID reads a positive integer route parameter. On failure it writes a
// 404 and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post", c.Params(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}
