package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PauloHFS/blog/internal/contextkeys"
	"github.com/PauloHFS/blog/internal/db"
	"github.com/PauloHFS/blog/internal/logging"
	"github.com/PauloHFS/blog/internal/routes"
	"github.com/alexedwards/scs/v2"
)

// SessionUserKey é a chave da sessão que guarda o id do usuário logado.
const SessionUserKey = "user_id"

type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (db.User, error)
}

// Authenticate carrega o usuário da sessão, se houver. Rotas públicas e
// protegidas passam por aqui; quem exige login é a camada de serviço.
func Authenticate(sm *scs.SessionManager, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), SessionUserKey)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			// Nota: Em apps de altíssimo tráfego, você poderia colocar o usuário no cache
			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				// Usuário removido ou sessão inválida: segue como anônimo
				sm.Remove(r.Context(), SessionUserKey)
				next.ServeHTTP(w, r)
				return
			}

			logging.AddToEvent(r.Context(), slog.Int64("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &user)))
		})
	}
}

// RedirectLogin manda o usuário para o login, voltando para a página atual depois.
func RedirectLogin(w http.ResponseWriter, r *http.Request) {
	target := routes.LoginNext(r.URL.RequestURI())
	if r.Method != http.MethodGet {
		// Após um POST a volta deve ser para a página do formulário.
		target = routes.LoginNext(r.URL.Path)
	}

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
	} else {
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

// SafeNext devolve next se for um caminho local, senão a home.
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return routes.Home
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" {
		return routes.Home
	}
	return next
}

func WithUser(ctx context.Context, user *db.User) context.Context {
	return context.WithValue(ctx, contextkeys.UserContextKey, user)
}

// GetUser recupera o usuário do contexto de forma segura
func GetUser(ctx context.Context) (*db.User, bool) {
	user, ok := ctx.Value(contextkeys.UserContextKey).(*db.User)
	return user, ok && user != nil
}
