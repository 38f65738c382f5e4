package web

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/PauloHFS/blog/internal/config"
	"github.com/PauloHFS/blog/internal/db"
	"github.com/PauloHFS/blog/internal/logging"
	"github.com/PauloHFS/blog/internal/middleware"
	"github.com/PauloHFS/blog/internal/routes"
	"github.com/PauloHFS/blog/internal/services"
	"github.com/PauloHFS/blog/internal/view/pages"
	"github.com/a-h/templ"
	"github.com/alexedwards/scs/v2"
)

type HandlerDeps struct {
	DB             *sql.DB
	Queries        *db.Queries
	SessionManager *scs.SessionManager
	Config         *config.Config
	Posts          *services.PostService
	Auth           *services.AuthService
}

// NewHandlerDeps monta as dependências padrão sobre uma conexão aberta.
func NewHandlerDeps(dbConn *sql.DB, sm *scs.SessionManager, cfg *config.Config) HandlerDeps {
	queries := db.New(dbConn)
	return HandlerDeps{
		DB:             dbConn,
		Queries:        queries,
		SessionManager: sm,
		Config:         cfg,
		Posts:          services.NewPostService(queries),
		Auth:           services.NewAuthService(queries),
	}
}

// AppHandler é um tipo customizado que permite retornar erros dos handlers
type AppHandler func(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error

// Handle envolve nosso AppHandler para conformidade com http.HandlerFunc
func Handle(deps HandlerDeps, h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logging.SetRoute(r.Context(), r.Pattern)

		if err := h(deps, w, r); err != nil {
			logging.Get().ErrorContext(r.Context(), "request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
			logging.AddToEvent(r.Context(), slog.String("error", err.Error()))

			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}

// renderPostError traduz os erros do serviço de posts em respostas.
// Erros desconhecidos voltam para o Handle e viram 500.
func renderPostError(w http.ResponseWriter, r *http.Request, err error) error {
	logging.AddToEvent(r.Context(), slog.String("outcome", services.Outcome(err)))

	switch {
	case errors.Is(err, services.ErrAuthenticationRequired):
		middleware.RedirectLogin(w, r)
		return nil
	case errors.Is(err, services.ErrForbidden):
		render(w, r, http.StatusForbidden, pages.ErrorPage(http.StatusForbidden, "Você não tem permissão para alterar este post."))
		return nil
	case errors.Is(err, services.ErrNotFound):
		notFound(w, r)
		return nil
	}
	return err
}

func notFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusNotFound, pages.ErrorPage(http.StatusNotFound, "Página não encontrada."))
}

// postID lê o {id} da rota. Ids inválidos respondem como inexistentes.
func postID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, services.ErrNotFound
	}
	logging.AddToEvent(r.Context(), slog.Int64("post_id", id))
	return id, nil
}

func currentUser(r *http.Request) *db.User {
	user, _ := middleware.GetUser(r.Context())
	return user
}

// --- Auth Handlers ---

func handleLoginPage(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	render(w, r, http.StatusOK, pages.Login(q.Get("message"), middleware.SafeNext(q.Get("next"))))
	return nil
}

func handleLogin(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	email := r.FormValue("email")
	password := r.FormValue("password")
	next := middleware.SafeNext(r.FormValue("next"))

	emailDomain := ""
	if idx := strings.Index(email, "@"); idx > 0 {
		emailDomain = email[idx+1:]
	}

	logging.AddToEvent(r.Context(),
		slog.String("operation", "login"),
		slog.String("email_domain", emailDomain),
	)

	out := deps.Auth.Login(r.Context(), services.LoginInput{Email: email, Password: password})
	if !out.Success {
		logging.AddToEvent(r.Context(), slog.String("outcome", "error"))
		render(w, r, http.StatusOK, pages.Login(out.Error, next))
		return nil
	}

	// Novo token de sessão a cada login (session fixation).
	if err := deps.SessionManager.RenewToken(r.Context()); err != nil {
		return fmt.Errorf("failed to renew session token: %w", err)
	}
	deps.SessionManager.Put(r.Context(), middleware.SessionUserKey, out.User.ID)

	logging.AddToEvent(r.Context(),
		slog.String("outcome", "success"),
		slog.Int64("user_id", out.User.ID),
	)

	http.Redirect(w, r, next, http.StatusSeeOther)
	return nil
}

func handleRegisterPage(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	render(w, r, http.StatusOK, pages.Register(""))
	return nil
}

func handleRegister(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "register"))

	out := deps.Auth.Register(r.Context(), services.RegisterInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	})
	if !out.Success {
		logging.AddToEvent(r.Context(),
			slog.String("outcome", "error"),
			slog.String("error_reason", out.Error),
		)
		render(w, r, http.StatusOK, pages.Register(out.Error))
		return nil
	}

	logging.AddToEvent(r.Context(),
		slog.String("outcome", "success"),
		slog.Int64("created_user_id", out.User.ID),
	)

	http.Redirect(w, r, routes.Login+"?message=Conta criada! Faça login.", http.StatusSeeOther)
	return nil
}

func handleLogout(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	if err := deps.SessionManager.Destroy(r.Context()); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	http.Redirect(w, r, routes.Home, http.StatusSeeOther)
	return nil
}

func handleAbout(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	render(w, r, http.StatusOK, pages.About())
	return nil
}

func handleHealth(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	if err := deps.DB.PingContext(r.Context()); err != nil {
		logging.Get().ErrorContext(r.Context(), "health check failed: db unreachable", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return nil
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
	return nil
}
