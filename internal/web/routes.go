package web

import (
	"net/http"

	"github.com/PauloHFS/blog/internal/logging"
	"github.com/PauloHFS/blog/internal/routes"
)

func RegisterRoutes(mux *http.ServeMux, deps HandlerDeps) {
	// Auth Handlers
	mux.HandleFunc("GET "+routes.Login, Handle(deps, handleLoginPage))
	mux.HandleFunc("POST "+routes.Login, Handle(deps, handleLogin))
	mux.HandleFunc("GET "+routes.Register, Handle(deps, handleRegisterPage))
	mux.HandleFunc("POST "+routes.Register, Handle(deps, handleRegister))
	mux.HandleFunc("POST "+routes.Logout, Handle(deps, handleLogout))

	// Posts. Login e autoria são verificados pelo PostService.
	mux.HandleFunc("GET /{$}", Handle(deps, handleHome))
	mux.HandleFunc("GET "+routes.PostNew, Handle(deps, handlePostNewForm))
	mux.HandleFunc("POST "+routes.PostNew, Handle(deps, handlePostCreate))
	mux.HandleFunc("GET /post/{id}", Handle(deps, handlePostDetail))
	mux.HandleFunc("GET /post/{id}/update", Handle(deps, handlePostUpdateForm))
	mux.HandleFunc("POST /post/{id}/update", Handle(deps, handlePostUpdate))
	mux.HandleFunc("GET /post/{id}/delete", Handle(deps, handlePostDeleteConfirm))
	mux.HandleFunc("POST /post/{id}/delete", Handle(deps, handlePostDelete))

	// Public Routes
	mux.HandleFunc("GET "+routes.About, Handle(deps, handleAbout))
	mux.HandleFunc("GET "+routes.Health, Handle(deps, handleHealth))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		logging.SetRoute(r.Context(), r.Pattern)
		notFound(w, r)
	})
}
