package server

import (
	"mingle/internal/models"
	"mingle/internal/session"
	"mingle/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET and POST for "/" and "/index": the landing page with the
// combined login and registration forms.
func (s *Server) Index(c *fiber.Ctx) error {
	sess, err := s.ensureSession(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	if c.Method() == fiber.MethodPost {
		var form indexForm
		if err := c.BodyParser(&form); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid form submission"))
		}
		switch {
		case form.LoginSubmit != "":
			return s.login(c, sess, &form)
		case form.RegisterSubmit != "":
			return s.register(c, sess, &form)
		}
	}

	return s.renderIndex(c, sess, validation.FieldErrors{})
}

func (s *Server) renderIndex(c *fiber.Ctx, sess *session.Session, errs validation.FieldErrors) error {
	return s.renderPage(c, sess, "Welcome", fiber.Map{"errors": errs})
}

// login checks the credentials with a direct string comparison against the
// stored password and, on success, rotates to a fresh authenticated session.
func (s *Server) login(c *fiber.Ctx, sess *session.Session, form *indexForm) error {
	if errs := form.validateLogin(); !errs.Ok() {
		return s.renderIndex(c, sess, errs)
	}

	user, err := s.userRepo.GetByUsername(c.UserContext(), form.LoginUsername)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		sess.Flash(noticeWarning, "Sorry, this user does not exist!")
		return s.renderIndex(c, sess, validation.FieldErrors{})
	}
	if user.Password != form.LoginPassword {
		sess.Flash(noticeWarning, "Sorry, wrong password!")
		return s.renderIndex(c, sess, validation.FieldErrors{})
	}

	fresh, err := s.sessions.Login(c.UserContext(), sess, user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if err := s.setSessionCookie(c, fresh); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	return c.Redirect("/stream/"+user.Username, fiber.StatusSeeOther)
}

// register creates the account with the submitted password stored as-is.
func (s *Server) register(c *fiber.Ctx, sess *session.Session, form *indexForm) error {
	if errs := form.validateRegister(); !errs.Ok() {
		return s.renderIndex(c, sess, errs)
	}

	user := &models.User{
		Username:  form.RegisterUsername,
		FirstName: form.RegisterFirstName,
		LastName:  form.RegisterLastName,
		Password:  form.RegisterPassword,
	}
	if err := s.userRepo.Create(c.UserContext(), user); err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "VALIDATION_ERROR" {
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return s.flashAndRedirect(c, sess, noticeSuccess, "User successfully created!", "/")
}

// Logout destroys the session and hands the client a fresh anonymous one so
// the goodbye notice survives the redirect.
func (s *Server) Logout(c *fiber.Ctx) error {
	sess, err := s.sessionFromRequest(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if sess != nil {
		if err := s.sessions.Destroy(c.UserContext(), sess); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		}
	}

	fresh, err := s.sessions.Create(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if err := s.setSessionCookie(c, fresh); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	return s.flashAndRedirect(c, fresh, noticeInfo, "Logged out.", "/")
}
