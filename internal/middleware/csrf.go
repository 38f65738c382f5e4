package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/PauloHFS/blog/internal/contextkeys"
	"github.com/PauloHFS/blog/internal/logging"
	"github.com/justinas/nosurf"
)

// InjectCSRF coloca o token no contexto para os formulários. Deve rodar
// dentro do handler do nosurf.
func InjectCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := nosurf.Token(r)
		ctx := context.WithValue(r.Context(), contextkeys.CSRFTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CSRF protege next com nosurf e injeta o token no contexto.
func CSRF(secure bool, next http.Handler) http.Handler {
	h := nosurf.New(InjectCSRF(next))
	h.SetBaseCookie(http.Cookie{
		HttpOnly: true,
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reason := "csrf token invalid"
		if err := nosurf.Reason(r); err != nil {
			reason = err.Error()
		}
		logging.AddToEvent(r.Context(), slog.String("error_reason", reason))
		http.Error(w, "Forbidden", http.StatusForbidden)
	}))
	return h
}
