package server

import (
	"mingle/internal/models"
	"mingle/internal/validation"
)

// indexForm is the composite login/registration submission. Field names are
// prefixed by sub-form; the submit button that fired selects which one the
// handler processes.
type indexForm struct {
	LoginUsername string `form:"login-username"`
	LoginPassword string `form:"login-password"`
	LoginSubmit   string `form:"login-submit"`

	RegisterUsername  string `form:"register-username"`
	RegisterFirstName string `form:"register-first_name"`
	RegisterLastName  string `form:"register-last_name"`
	RegisterPassword  string `form:"register-password"`
	RegisterSubmit    string `form:"register-submit"`
}

func (f *indexForm) validateLogin() validation.FieldErrors {
	errs := validation.FieldErrors{}
	errs.Require("username", f.LoginUsername)
	errs.Require("password", f.LoginPassword)
	return errs
}

func (f *indexForm) validateRegister() validation.FieldErrors {
	errs := validation.FieldErrors{}
	errs.Require("username", f.RegisterUsername)
	errs.MaxLen("username", f.RegisterUsername, 64)
	errs.Require("first_name", f.RegisterFirstName)
	errs.Require("last_name", f.RegisterLastName)
	errs.Require("password", f.RegisterPassword)
	return errs
}

// postForm is a new post submission; the image arrives as a separate
// multipart file part.
type postForm struct {
	Content string `form:"content"`
}

func (f *postForm) validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	errs.Require("content", f.Content)
	return errs
}

type commentForm struct {
	Comment string `form:"comment"`
}

func (f *commentForm) validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	errs.Require("comment", f.Comment)
	return errs
}

type friendForm struct {
	Username string `form:"username"`
}

func (f *friendForm) validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	errs.Require("username", f.Username)
	return errs
}

// profileForm carries the optional biography fields. All of them are written
// through on every submission, blanks included.
type profileForm struct {
	Education   string `form:"education"`
	Employment  string `form:"employment"`
	Music       string `form:"music"`
	Movie       string `form:"movie"`
	Nationality string `form:"nationality"`
	Birthday    string `form:"birthday"`
}

func (f *profileForm) fields() models.ProfileFields {
	return models.ProfileFields{
		Education:   f.Education,
		Employment:  f.Employment,
		Music:       f.Music,
		Movie:       f.Movie,
		Nationality: f.Nationality,
		Birthday:    f.Birthday,
	}
}
