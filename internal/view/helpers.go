package view

import (
	"context"
	"strings"
	"time"

	"github.com/PauloHFS/blog/internal/contextkeys"
	"github.com/PauloHFS/blog/internal/db"
	"github.com/microcosm-cc/bluemonday"
)

// ugc permite a marcação segura de conteúdo gerado por usuários.
var ugc = bluemonday.UGCPolicy()

// CSRFToken retorna o token do contexto
func CSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(contextkeys.CSRFTokenKey).(string); ok {
		return token
	}
	return ""
}

// Nonce retorna o nonce CSP da requisição.
func Nonce(ctx context.Context) string {
	if nonce, ok := ctx.Value(contextkeys.NonceKey).(string); ok {
		return nonce
	}
	return ""
}

// CurrentUser retorna o usuário logado ou nil.
func CurrentUser(ctx context.Context) *db.User {
	if user, ok := ctx.Value(contextkeys.UserContextKey).(*db.User); ok {
		return user
	}
	return nil
}

// SanitizeContent limpa o corpo do post e preserva as quebras de linha.
func SanitizeContent(content string) string {
	clean := ugc.Sanitize(content)
	clean = strings.ReplaceAll(clean, "\r\n", "\n")
	return strings.ReplaceAll(clean, "\n", "<br/>")
}

func FormatDate(t time.Time) string {
	return t.UTC().Format("02/01/2006 15:04")
}

func ISODate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
