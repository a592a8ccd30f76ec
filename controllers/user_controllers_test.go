package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Zack-River/Food-Delivery-Backend/middlewares"
	"github.com/Zack-River/Food-Delivery-Backend/models"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	uc := NewUserController(db)
	r := gin.New()
	auth := r.Group("/api/auth")
	auth.POST("/register", uc.Register)
	auth.POST("/login", uc.Login)
	auth.POST("/logout", middlewares.AuthMiddleware(), uc.Logout)
	auth.GET("/profile", middlewares.AuthMiddleware(), uc.GetProfile)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body gin.H, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func registerBody(email string) gin.H {
	return gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "hunter2hunter2",
		"role":     "customer",
	}
}

func TestRegister(t *testing.T) {
	r := setupAuthRouter(t)

	w, resp := postJSON(t, r, "/api/auth/register", registerBody("new@test.com"), "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)
	assert.NotZero(t, resp.Data["user_id"])

	// Same email again is a conflict.
	w, _ = postJSON(t, r, "/api/auth/register", registerBody("new@test.com"), "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	r := setupAuthRouter(t)

	body := registerBody("boss@test.com")
	body["role"] = "admin"
	w, resp := postJSON(t, r, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Message, "role")
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	r := setupAuthRouter(t)

	body := registerBody("short@test.com")
	body["password"] = "abc"
	w, _ := postJSON(t, r, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginAndLogoutFlow(t *testing.T) {
	r := setupAuthRouter(t)
	postJSON(t, r, "/api/auth/register", registerBody("flow@test.com"), "")

	// Wrong password never reveals whether the account exists.
	w, _ := postJSON(t, r, "/api/auth/login",
		gin.H{"email": "flow@test.com", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp := postJSON(t, r, "/api/auth/login",
		gin.H{"email": "flow@test.com", "password": "hunter2hunter2"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	token, _ := resp.Data["token"].(string)
	assert.NotEmpty(t, token)
	assert.Equal(t, "customer", resp.Data["role"])

	// Token works against a protected route.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	pw := httptest.NewRecorder()
	r.ServeHTTP(pw, req)
	assert.Equal(t, http.StatusOK, pw.Code)

	// Logout revokes it.
	w, _ = postJSON(t, r, "/api/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	pw = httptest.NewRecorder()
	r.ServeHTTP(pw, req)
	assert.Equal(t, http.StatusUnauthorized, pw.Code)
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	r := setupAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
