package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"yatube/internal/auth"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/views"
)

// errBadForm marks a request body that could not be parsed.
var errBadForm = errors.New("malformed form body")

type Handler struct {
	posts    *views.Posts
	users    services.UserServiceProvider
	sessions *auth.Manager
	tpls     *Renderer
}

func New(posts *views.Posts, users services.UserServiceProvider, sessions *auth.Manager, tpls *Renderer) *Handler {
	return &Handler{posts: posts, users: users, sessions: sessions, tpls: tpls}
}

// currentUser returns the logged-in user, or nil for anonymous callers.
func (h *Handler) currentUser(r *http.Request) (*models.User, error) {
	u, err := h.sessions.CurrentUser(r)
	if errors.Is(err, auth.ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// request converts r into the value the views work on.
func (h *Handler) request(r *http.Request) (views.Request, error) {
	params := map[string]string{}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		for i, k := range rc.URLParams.Keys {
			params[k] = rc.URLParams.Values[i]
		}
	}
	req := views.Request{
		Method: r.Method,
		URI:    r.URL.RequestURI(),
		Params: params,
		Query:  r.URL.Query(),
		Form:   url.Values{},
	}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			return views.Request{}, fmt.Errorf("%w: %v", errBadForm, err)
		}
		req.Form = r.PostForm
	}
	user, err := h.currentUser(r)
	if err != nil {
		return views.Request{}, err
	}
	req.User = user
	return req, nil
}

// Serve adapts a view to an http.HandlerFunc.
func (h *Handler) Serve(v views.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := h.request(r)
		if errors.Is(err, errBadForm) {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected request")
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		resp, err := v(r.Context(), req)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		switch {
		case resp.IsRedirect():
			http.Redirect(w, r, resp.Redirect, resp.Status)
		case resp.Status == http.StatusNotFound:
			h.notFound(w, r, req.User)
		default:
			h.render(w, r, resp.Status, resp.Template, resp.Context, req.User)
		}
	}
}

// render adds the current user to data and writes the page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any, user *models.User) {
	if data == nil {
		data = map[string]any{}
	}
	data["request_user"] = user
	if err := h.tpls.Render(w, status, name, data); err != nil {
		h.serverError(w, r, err)
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, user *models.User) {
	h.render(w, r, http.StatusNotFound, templateNotFound, map[string]any{"path": r.URL.Path}, user)
}

// NotFound serves the 404 page for unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r, h.visitor(r))
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

// serverError logs err and answers 500 with the error page.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request failed")
	if rerr := h.tpls.Render(w, http.StatusInternalServerError, templateServerError, map[string]any{}); rerr != nil {
		log.Error().Err(rerr).Msg("Failed to render error page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
