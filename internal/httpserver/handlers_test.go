package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teslo-shop/backend/internal/models"
	"github.com/teslo-shop/backend/internal/repo"
	"github.com/teslo-shop/backend/internal/service"
	"github.com/teslo-shop/backend/internal/transport"
)

type testEnv struct {
	E       *echo.Echo
	DB      *gorm.DB
	Auth    *AuthHTTP
	Catalog *CatalogHTTP
	MW      *AuthMiddleware
	AuthSvc *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.ProductImage{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	store := &repo.GormRepo{DB: db}
	secret := []byte("test-jwt-secret")
	authSvc := service.NewAuthService(store, slog.Default(), secret, time.Hour)
	catalogSvc := service.NewCatalogService(store, nil, nil, slog.Default())

	return &testEnv{
		E:       echo.New(),
		DB:      db,
		Auth:    &AuthHTTP{Svc: authSvc},
		Catalog: &CatalogHTTP{Svc: catalogSvc},
		MW:      &AuthMiddleware{Repo: store, JWTSecret: secret},
		AuthSvc: authSvc,
	}
}

func (env *testEnv) doJSON(method, target string, body any, token string) (*httptest.ResponseRecorder, echo.Context) {
	var data []byte
	if body != nil {
		data, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

// registerUser creates a user through the service and returns its token. Roles
// beyond the default are applied directly to the row.
func (env *testEnv) registerUser(t *testing.T, email string, roles ...string) (*models.User, string) {
	t.Helper()

	res, err := env.AuthSvc.Register(context.Background(), transport.RegisterRequest{
		Email:    email,
		Password: "secret12",
		FullName: "Test User",
	})
	require.NoError(t, err)

	user := res.User
	if len(roles) > 0 {
		require.NoError(t, env.DB.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("roles", pq.StringArray(roles)).Error)
		user.Roles = pq.StringArray(roles)
	}
	return &user, res.Token
}

func TestRegisterHandler(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSON(http.MethodPost, "/auth/register", map[string]string{
		"email":     "nora@example.com",
		"password":  "secret12",
		"full_name": "Nora",
	}, "")

	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var res struct {
		User  map[string]any `json:"user"`
		Token string         `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "nora@example.com", res.User["email"])
	assert.NotContains(t, res.User, "password_hash")
	assert.NotEmpty(t, res.Token)
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "taken@example.com")

	_, c := env.doJSON(http.MethodPost, "/auth/register", map[string]string{
		"email":     "taken@example.com",
		"password":  "secret12",
		"full_name": "Copy",
	}, "")

	err := env.Auth.Register(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Contains(t, he.Message, "taken@example.com")
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "val@example.com")

	_, c := env.doJSON(http.MethodPost, "/auth/login", map[string]string{
		"email":    "val@example.com",
		"password": "wrong",
	}, "")

	err := env.Auth.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestCheckStatusHandler_ReissuesToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "ref@example.com")

	rec, c := env.doJSON(http.MethodGet, "/auth/check-status", nil, token)
	require.NoError(t, env.MW.RequireUser(env.Auth.CheckStatus)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Token)
}

func TestCreateProductHandler_WithBearerToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "maker@example.com")

	rec, c := env.doJSON(http.MethodPost, "/products", map[string]any{
		"title":  "Handler Hoodie",
		"sizes":  []string{"S"},
		"gender": "unisex",
		"images": []string{"a.jpg"},
	}, token)

	require.NoError(t, env.MW.RequireUser(env.Catalog.CreateProduct)(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var prod transport.ProductPlain
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prod))
	assert.Equal(t, "handler_hoodie", prod.Slug)
	assert.Equal(t, []string{"a.jpg"}, prod.Images)
}

func TestCreateProductHandler_MissingToken(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(http.MethodPost, "/products", map[string]any{"title": "Nope"}, "")

	err := env.MW.RequireUser(env.Catalog.CreateProduct)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestGetProductHandler_NotFoundTerm(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(http.MethodGet, "/products/missing_thing", nil, "")
	c.SetParamNames("term")
	c.SetParamValues("missing_thing")

	err := env.Catalog.GetProduct(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusNotFound, he.Code)
	assert.Contains(t, he.Message, "missing_thing")
}

func TestPatchProductHandler_ForbiddenForNonAdmin(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.registerUser(t, "plain@example.com")

	created, err := env.Catalog.Svc.Create(context.Background(), transport.CreateProductRequest{
		Title:  "Locked Down",
		Sizes:  []string{"M"},
		Gender: "men",
	}, user)
	require.NoError(t, err)

	_, c := env.doJSON(http.MethodPatch, "/products/"+created.ID.String(), map[string]any{
		"price": 99,
	}, token)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())

	herr := env.MW.RequireUser(env.Catalog.PatchProduct)(c)
	he, ok := herr.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestDeleteProductHandler_AdminFlow(t *testing.T) {
	env := newTestEnv(t)
	admin, token := env.registerUser(t, "boss@example.com", models.RoleUser, models.RoleAdmin)

	created, err := env.Catalog.Svc.Create(context.Background(), transport.CreateProductRequest{
		Title:  "Short Lived",
		Sizes:  []string{"M"},
		Gender: "women",
	}, admin)
	require.NoError(t, err)

	rec, c := env.doJSON(http.MethodDelete, "/products/"+created.ID.String(), nil, token)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())

	require.NoError(t, env.MW.RequireUser(env.Catalog.DeleteProduct)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var res map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res["message"], "has been deleted")
}
