package forms

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	usernameMaxLen    = 150
	passwordMinLen    = 8
	passwordMaxBytes  = 72
	msgUsernameFormat = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	msgUsernameLong   = "Ensure this value has at most 150 characters."
	msgEmail          = "Enter a valid email address."
	msgPasswordShort  = "This password is too short. It must contain at least 8 characters."
	msgPasswordLong   = "This password is too long. It must be at most 72 bytes."
	msgPasswordMatch  = "The two password fields didn't match."
)

var usernameRe = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

type LoginForm struct {
	Username string
	Password string
	Errors   FieldErrors
}

func NewLoginForm(values url.Values) *LoginForm {
	return &LoginForm{
		Username: strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
		Errors:   FieldErrors{},
	}
}

func (f *LoginForm) Validate() error {
	if f.Errors == nil {
		f.Errors = FieldErrors{}
	}
	if f.Username == "" {
		f.Errors.Add("username", msgRequired)
	}
	if f.Password == "" {
		f.Errors.Add("password", msgRequired)
	}
	return f.Errors.err()
}

type SignupForm struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
	Errors    FieldErrors
}

func NewSignupForm(values url.Values) *SignupForm {
	return &SignupForm{
		Username:  strings.TrimSpace(values.Get("username")),
		Email:     strings.TrimSpace(values.Get("email")),
		Password1: values.Get("password1"),
		Password2: values.Get("password2"),
		Errors:    FieldErrors{},
	}
}

func (f *SignupForm) Validate() error {
	if f.Errors == nil {
		f.Errors = FieldErrors{}
	}
	switch {
	case f.Username == "":
		f.Errors.Add("username", msgRequired)
	case utf8.RuneCountInString(f.Username) > usernameMaxLen:
		f.Errors.Add("username", msgUsernameLong)
	case !usernameRe.MatchString(f.Username):
		f.Errors.Add("username", msgUsernameFormat)
	}

	if f.Email != "" {
		if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
			f.Errors.Add("email", msgEmail)
		}
	}

	switch {
	case f.Password1 == "":
		f.Errors.Add("password1", msgRequired)
	case utf8.RuneCountInString(f.Password1) < passwordMinLen:
		f.Errors.Add("password1", msgPasswordShort)
	case len(f.Password1) > passwordMaxBytes:
		f.Errors.Add("password1", msgPasswordLong)
	}
	if f.Password2 == "" {
		f.Errors.Add("password2", msgRequired)
	} else if f.Password1 != f.Password2 {
		f.Errors.Add("password2", msgPasswordMatch)
	}
	return f.Errors.err()
}
