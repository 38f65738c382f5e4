package integration

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PauloHFS/blog/internal/config"
	"github.com/PauloHFS/blog/internal/db"
	"github.com/PauloHFS/blog/internal/middleware"
	"github.com/PauloHFS/blog/internal/routes"
	"github.com/PauloHFS/blog/internal/web"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	DB     *sql.DB
	Server *httptest.Server
	Deps   web.HandlerDeps
}

func setupTestServer(t *testing.T, withCSRF bool) *TestServer {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test_integration.db")
	dbConn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, dbConn.Ping())
	require.NoError(t, db.RunMigrations(ctx, dbConn))
	require.NoError(t, db.Seed(ctx, dbConn))

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbConn, 0)
	sessionManager.Lifetime = 24 * time.Hour

	deps := web.NewHandlerDeps(dbConn, sessionManager, &config.Config{Env: "test", Port: "8080"})

	mux := http.NewServeMux()
	web.RegisterRoutes(mux, deps)

	var inner http.Handler = mux
	if withCSRF {
		inner = middleware.CSRF(false, mux)
	}

	handler := middleware.Recovery(
		middleware.Logger(
			middleware.SecurityHeaders(false)(
				middleware.Locale(
					sessionManager.LoadAndSave(
						middleware.Authenticate(sessionManager, deps.Queries)(inner),
					),
				),
			),
		),
	)

	server := httptest.NewServer(handler)

	t.Cleanup(func() {
		server.Close()
		dbConn.Close()
	})

	return &TestServer{DB: dbConn, Server: server, Deps: deps}
}

// newClient devolve um cliente com cookie jar que não segue redirects.
func (ts *TestServer) newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (ts *TestServer) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(ts.Server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (ts *TestServer) post(t *testing.T, c *http.Client, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(ts.Server.URL+path, form)
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

func (ts *TestServer) login(t *testing.T, username string) *http.Client {
	t.Helper()
	c := ts.newClient(t)
	resp := ts.post(t, c, routes.Login, url.Values{
		"email":    {username + "@example.com"},
		"password": {"password123"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	return c
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t, false)

	resp, _ := ts.get(t, ts.newClient(t), routes.Health)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHomeListsSeededPost(t *testing.T) {
	ts := setupTestServer(t, false)

	resp, body := ts.get(t, ts.newClient(t), routes.Home)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "alice")
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
}

func TestAboutPage(t *testing.T) {
	ts := setupTestServer(t, false)

	resp, _ := ts.get(t, ts.newClient(t), routes.About)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPostOwnershipFlow(t *testing.T) {
	ts := setupTestServer(t, false)
	alice := ts.login(t, "alice")
	bob := ts.login(t, "bob")
	anon := ts.newClient(t)

	// alice cria
	resp := ts.post(t, alice, routes.PostNew, url.Values{"title": {"Hi"}, "content": {"World"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	detail := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(detail, "/post/"), detail)

	// aparece no topo da lista
	_, body := ts.get(t, anon, routes.Home)
	assert.Less(t, strings.Index(body, ">Hi<"), strings.Index(body, "Hello, blog"), "newest post should come first")

	// detalhe público
	resp, body = ts.get(t, anon, detail)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Hi")

	// anônimo é mandado para o login
	resp = ts.post(t, anon, detail+"/update", url.Values{"title": {"x"}, "content": {"y"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, routes.LoginNext(detail+"/update"), resp.Header.Get("Location"))

	// bob não é o autor
	resp = ts.post(t, bob, detail+"/update", url.Values{"title": {"Hacked"}, "content": {"World"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = ts.post(t, bob, detail+"/delete", url.Values{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// alice edita
	resp = ts.post(t, alice, detail+"/update", url.Values{"title": {"Hi2"}, "content": {"World"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, detail, resp.Header.Get("Location"))

	_, body = ts.get(t, anon, detail)
	assert.Contains(t, body, "Hi2")
	assert.Contains(t, body, "alice")

	// alice exclui
	resp = ts.post(t, alice, detail+"/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, routes.Home, resp.Header.Get("Location"))

	resp, _ = ts.get(t, anon, detail)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLoginRedirectsBackToForm(t *testing.T) {
	ts := setupTestServer(t, false)
	c := ts.newClient(t)

	resp, _ := ts.get(t, c, routes.PostNew)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loginURL := resp.Header.Get("Location")
	next, err := url.Parse(loginURL)
	require.NoError(t, err)

	resp = ts.post(t, c, routes.Login, url.Values{
		"email":    {"alice@example.com"},
		"password": {"password123"},
		"next":     {next.Query().Get("next")},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, routes.PostNew, resp.Header.Get("Location"))

	resp, _ = ts.get(t, c, routes.PostNew)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegistrationFlow(t *testing.T) {
	ts := setupTestServer(t, false)
	c := ts.newClient(t)

	resp := ts.post(t, c, routes.Register, url.Values{
		"username": {"carol"},
		"email":    {"carol@example.com"},
		"password": {"password123"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	// Segundo cadastro com o mesmo e-mail volta para o formulário
	resp = ts.post(t, c, routes.Register, url.Values{
		"username": {"carol2"},
		"email":    {"carol@example.com"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ts.login(t, "carol")
}

func TestCSRFRejectsFormWithoutToken(t *testing.T) {
	ts := setupTestServer(t, true)
	c := ts.newClient(t)

	resp := ts.post(t, c, routes.Login, url.Values{
		"email":    {"alice@example.com"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := ts.get(t, c, routes.Login)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="csrf_token"`)
}
