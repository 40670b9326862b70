package handlers

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"yatube/internal/views"
)

// Routes builds the site router. static serves files under /static/.
func (h *Handler) Routes(static fs.FS) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog)
	r.Use(h.Recover)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", h.Serve(h.posts.Index))
	r.Get("/group/{slug}/", h.Serve(h.posts.GroupPosts))
	r.Get("/profile/{username}/", h.Serve(h.posts.Profile))
	r.Get("/posts/{id}/", h.Serve(h.posts.PostDetail))

	edit := h.Serve(views.LoginRequired(h.posts.PostEdit))
	r.Get("/posts/{id}/edit/", edit)
	r.Post("/posts/{id}/edit/", edit)

	create := h.Serve(views.LoginRequired(h.posts.PostCreate))
	r.Get("/create/", create)
	r.Post("/create/", create)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login/", h.Login)
		r.Post("/login/", h.Login)
		r.Get("/signup/", h.Signup)
		r.Post("/signup/", h.Signup)
		r.Post("/logout/", h.Logout)
	})

	return r
}
