package web

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PauloHFS/blog/internal/config"
	"github.com/PauloHFS/blog/internal/db"
	"github.com/PauloHFS/blog/internal/metrics"
	"github.com/PauloHFS/blog/internal/middleware"
	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	dto "github.com/prometheus/client_model/go"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	deps    HandlerDeps
	handler http.Handler
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "web_test.db")
	dbConn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		dbConn.Close()
	})

	if err := db.RunMigrations(context.Background(), dbConn); err != nil {
		t.Fatal(err)
	}

	sm := scs.New()
	deps := NewHandlerDeps(dbConn, sm, &config.Config{Env: "test"})

	mux := http.NewServeMux()
	RegisterRoutes(mux, deps)

	return &testApp{
		deps:    deps,
		handler: sm.LoadAndSave(middleware.Authenticate(sm, deps.Queries)(mux)),
	}
}

func (a *testApp) createUser(t *testing.T, username string) int64 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	id, err := a.deps.Queries.CreateUser(context.Background(), db.CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func (a *testApp) do(method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

func (a *testApp) login(t *testing.T, username string) *http.Cookie {
	t.Helper()
	rr := a.do("POST", "/login", url.Values{
		"email":    {username + "@example.com"},
		"password": {"password123"},
	}, nil)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("login as %s failed with status %d", username, rr.Code)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == a.deps.SessionManager.Cookie.Name {
			return c
		}
	}
	t.Fatal("session cookie not set after login")
	return nil
}

func (a *testApp) createPost(t *testing.T, cookie *http.Cookie, title, content string) string {
	t.Helper()
	rr := a.do("POST", "/post/new", url.Values{"title": {title}, "content": {content}}, cookie)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 on create, got %d", rr.Code)
	}
	return rr.Header().Get("Location")
}

func TestPublicPages(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"Home", "/", http.StatusOK},
		{"About", "/about", http.StatusOK},
		{"Login", "/login", http.StatusOK},
		{"Register", "/register", http.StatusOK},
		{"Health", "/health", http.StatusOK},
		{"MissingPost", "/post/999", http.StatusNotFound},
		{"NonNumericPost", "/post/abc", http.StatusNotFound},
		{"UnknownPath", "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := app.do("GET", tt.path, nil, nil)
			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}

func TestUnauthenticatedMutationsRedirectToLogin(t *testing.T) {
	app := setupTestApp(t)
	app.createUser(t, "alice")
	location := app.createPost(t, app.login(t, "alice"), "Hi", "World")
	id := strings.TrimPrefix(location, "/post/")

	tests := []struct {
		name   string
		method string
		path   string
		form   url.Values
	}{
		{"NewForm", "GET", "/post/new", nil},
		{"Create", "POST", "/post/new", url.Values{"title": {"x"}, "content": {"y"}}},
		{"UpdateForm", "GET", "/post/" + id + "/update", nil},
		{"Update", "POST", "/post/" + id + "/update", url.Values{"title": {"x"}, "content": {"y"}}},
		{"DeleteForm", "GET", "/post/" + id + "/delete", nil},
		{"Delete", "POST", "/post/" + id + "/delete", url.Values{}},
		{"UpdateMissingPost", "POST", "/post/999/update", url.Values{"title": {"x"}, "content": {"y"}}},
		{"UpdateFormMalformedID", "GET", "/post/abc/update", nil},
		{"DeleteFormMalformedID", "GET", "/post/abc/delete", nil},
		{"UpdateFormZeroID", "GET", "/post/0/update", nil},
		{"DeleteMalformedID", "POST", "/post/abc/delete", url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := app.do(tt.method, tt.path, tt.form, nil)
			if rr.Code != http.StatusSeeOther {
				t.Fatalf("expected 303, got %d", rr.Code)
			}
			if loc := rr.Header().Get("Location"); !strings.HasPrefix(loc, "/login?next=") {
				t.Errorf("expected redirect to login, got %q", loc)
			}
		})
	}

	count, err := app.deps.Queries.CountPosts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 post after anonymous attempts, got %d", count)
	}
}

func TestMalformedIDNotFoundWhenLoggedIn(t *testing.T) {
	app := setupTestApp(t)
	app.createUser(t, "alice")
	alice := app.login(t, "alice")

	for _, path := range []string{"/post/abc", "/post/abc/update", "/post/abc/delete", "/post/0/update"} {
		if rr := app.do("GET", path, nil, alice); rr.Code != http.StatusNotFound {
			t.Errorf("GET %s: expected 404, got %d", path, rr.Code)
		}
	}
}

func TestRequestMetricsUseRoutePattern(t *testing.T) {
	app := setupTestApp(t)
	handler := middleware.Logger(app.handler)

	count := func(route string) float64 {
		var m dto.Metric
		if err := metrics.HttpRequestsTotal.WithLabelValues(route, http.MethodGet, "404").Write(&m); err != nil {
			t.Fatal(err)
		}
		return m.GetCounter().GetValue()
	}

	detail := count("GET /post/{id}")
	catchAll := count("/")

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/post/999", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nothing/here", nil))

	if got := count("GET /post/{id}") - detail; got != 1 {
		t.Errorf("expected detail route counted once, got %v", got)
	}
	if got := count("/") - catchAll; got != 1 {
		t.Errorf("expected catch-all route counted once, got %v", got)
	}
}

func TestPostLifecycle(t *testing.T) {
	app := setupTestApp(t)
	app.createUser(t, "alice")
	app.createUser(t, "bob")
	alice := app.login(t, "alice")
	bob := app.login(t, "bob")

	location := app.createPost(t, alice, "Hi", "World")
	if !strings.HasPrefix(location, "/post/") {
		t.Fatalf("expected redirect to detail, got %q", location)
	}

	t.Run("ListedOnHome", func(t *testing.T) {
		rr := app.do("GET", "/", nil, nil)
		if !strings.Contains(rr.Body.String(), "Hi") {
			t.Error("expected new post on home")
		}
	})

	t.Run("DetailShowsEditLinksOnlyToOwner", func(t *testing.T) {
		owner := app.do("GET", location, nil, alice)
		if owner.Code != http.StatusOK || !strings.Contains(owner.Body.String(), location+"/update") {
			t.Error("owner should see edit link")
		}
		other := app.do("GET", location, nil, bob)
		if strings.Contains(other.Body.String(), location+"/update") {
			t.Error("non owner must not see edit link")
		}
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		for _, tc := range []struct {
			method string
			path   string
			form   url.Values
		}{
			{"GET", location + "/update", nil},
			{"POST", location + "/update", url.Values{"title": {"Hacked"}, "content": {"x"}}},
			{"GET", location + "/delete", nil},
			{"POST", location + "/delete", url.Values{}},
		} {
			rr := app.do(tc.method, tc.path, tc.form, bob)
			if rr.Code != http.StatusForbidden {
				t.Errorf("%s %s: expected 403, got %d", tc.method, tc.path, rr.Code)
			}
		}
	})

	t.Run("InvalidUpdateRerendersForm", func(t *testing.T) {
		rr := app.do("POST", location+"/update", url.Values{"title": {""}, "content": {"World"}}, alice)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "título é obrigatório") {
			t.Error("expected title error in form")
		}
	})

	t.Run("OwnerUpdates", func(t *testing.T) {
		rr := app.do("POST", location+"/update", url.Values{"title": {"Hi2"}, "content": {"World"}}, alice)
		if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != location {
			t.Fatalf("expected 303 to %s, got %d %s", location, rr.Code, rr.Header().Get("Location"))
		}
		detail := app.do("GET", location, nil, nil)
		if !strings.Contains(detail.Body.String(), "Hi2") || !strings.Contains(detail.Body.String(), "alice") {
			t.Error("expected updated title with original author")
		}
	})

	t.Run("OwnerDeletes", func(t *testing.T) {
		rr := app.do("POST", location+"/delete", url.Values{}, alice)
		if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
			t.Fatalf("expected 303 to /, got %d %s", rr.Code, rr.Header().Get("Location"))
		}
		if app.do("GET", location, nil, nil).Code != http.StatusNotFound {
			t.Error("deleted post should be gone")
		}
	})
}

func TestCreateInvalid(t *testing.T) {
	app := setupTestApp(t)
	app.createUser(t, "alice")
	alice := app.login(t, "alice")

	rr := app.do("POST", "/post/new", url.Values{"title": {strings.Repeat("a", 101)}, "content": {"x"}}, alice)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
}

func TestHandleLogin(t *testing.T) {
	app := setupTestApp(t)
	app.createUser(t, "alice")

	t.Run("MissingCredentials", func(t *testing.T) {
		rr := app.do("POST", "/login", url.Values{}, nil)
		if rr.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
	})

	t.Run("InvalidPassword", func(t *testing.T) {
		rr := app.do("POST", "/login", url.Values{
			"email":    {"alice@example.com"},
			"password": {"wrongpassword"},
		}, nil)
		if rr.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Usuário ou senha inválidos") {
			t.Error("expected error message")
		}
	})

	t.Run("RedirectsToNext", func(t *testing.T) {
		rr := app.do("POST", "/login", url.Values{
			"email":    {"alice@example.com"},
			"password": {"password123"},
			"next":     {"/post/new"},
		}, nil)
		if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/post/new" {
			t.Errorf("expected redirect to /post/new, got %d %q", rr.Code, rr.Header().Get("Location"))
		}
	})

	t.Run("IgnoresExternalNext", func(t *testing.T) {
		rr := app.do("POST", "/login", url.Values{
			"email":    {"alice@example.com"},
			"password": {"password123"},
			"next":     {"https://evil.example.com"},
		}, nil)
		if rr.Header().Get("Location") != "/" {
			t.Errorf("expected redirect to /, got %q", rr.Header().Get("Location"))
		}
	})
}

func TestHandleRegister(t *testing.T) {
	app := setupTestApp(t)

	t.Run("Invalid", func(t *testing.T) {
		rr := app.do("POST", "/register", url.Values{"email": {"invalid-email"}, "password": {"password123"}}, nil)
		if rr.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
	})

	t.Run("Success", func(t *testing.T) {
		rr := app.do("POST", "/register", url.Values{
			"username": {"carol"},
			"email":    {"carol@example.com"},
			"password": {"password123"},
		}, nil)
		if rr.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", rr.Code)
		}
		app.login(t, "carol")
	})
}

func TestLogout(t *testing.T) {
	app := setupTestApp(t)
	app.createUser(t, "alice")
	cookie := app.login(t, "alice")

	rr := app.do("POST", "/logout", url.Values{}, cookie)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}

	rr = app.do("GET", "/post/new", nil, cookie)
	if rr.Code != http.StatusSeeOther {
		t.Errorf("expected destroyed session to require login again, got %d", rr.Code)
	}
}
