package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/services"
)

const (
	msgBadCredentials = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	msgUsernameTaken  = "A user with that username already exists."
)

// safeNext returns next when it is a local path, "/" otherwise.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

// visitor resolves the current user for the auth pages, which stay usable
// when the session lookup fails.
func (h *Handler) visitor(r *http.Request) *models.User {
	user, err := h.currentUser(r)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to resolve session")
	}
	return user
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	user := h.visitor(r)
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, templateLogin, map[string]any{
			"form": &forms.LoginForm{Errors: forms.FieldErrors{}},
			"next": r.URL.Query().Get("next"),
		}, user)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := forms.NewLoginForm(r.PostForm)
	next := r.PostForm.Get("next")
	data := map[string]any{"form": form, "next": next}
	if err := form.Validate(); err != nil {
		h.render(w, r, http.StatusOK, templateLogin, data, user)
		return
	}

	authed, err := h.users.Authenticate(r.Context(), form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		log.Warn().Str("username", form.Username).Msg("Failed login attempt")
		form.Errors.Add("__all__", msgBadCredentials)
		h.render(w, r, http.StatusOK, templateLogin, data, user)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if err := h.sessions.Create(r.Context(), w, authed.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	visitor := h.visitor(r)
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, templateSignup, map[string]any{
			"form": &forms.SignupForm{Errors: forms.FieldErrors{}},
		}, visitor)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := forms.NewSignupForm(r.PostForm)
	data := map[string]any{"form": form}
	if err := form.Validate(); err != nil {
		h.render(w, r, http.StatusOK, templateSignup, data, visitor)
		return
	}

	user, err := h.users.Create(r.Context(), form.Username, form.Email, form.Password1)
	if errors.Is(err, services.ErrUsernameTaken) {
		form.Errors.Add("username", msgUsernameTaken)
		h.render(w, r, http.StatusOK, templateSignup, data, visitor)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User registered")

	if err := h.sessions.Create(r.Context(), w, user.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		log.Error().Err(err).Msg("Failed to revoke session")
	}
	h.render(w, r, http.StatusOK, templateLoggedOut, nil, nil)
}
