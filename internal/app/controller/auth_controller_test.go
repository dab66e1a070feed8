package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ikkim/wishwall-backend/internal/app/repository"
	"github.com/ikkim/wishwall-backend/internal/app/service"
	"github.com/ikkim/wishwall-backend/internal/db"
	"github.com/ikkim/wishwall-backend/pkg/googleauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAuthSecret     = "auth-controller-test-secret"
	testGoogleClient   = "controller-test.apps.googleusercontent.com"
	testGoogleHSSecret = "controller-google-secret"
)

func setupAuthControllerTest(t *testing.T) (*AuthController, *gin.Engine) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	verifier := googleauth.NewTestVerifier(testGoogleClient, []byte(testGoogleHSSecret))
	authService := service.NewAuthService(userRepo, verifier, service.TokenConfig{
		Secret:             testAuthSecret,
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	})
	authController := NewAuthController(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return authController, router
}

func googleTestToken(t *testing.T, sub, email, name string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":   "https://accounts.google.com",
		"aud":   testGoogleClient,
		"sub":   sub,
		"email": email,
		"name":  name,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(testGoogleHSSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthController_Register(t *testing.T) {
	authController, router := setupAuthControllerTest(t)
	router.POST("/auth/register", authController.Register)

	w := postJSON(t, router, "/auth/register", gin.H{
		"email":    "new@example.com",
		"password": "password123",
		"name":     "New User",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")
	assert.Contains(t, w.Body.String(), "new@example.com")
	assert.NotContains(t, w.Body.String(), "password123")
}

func TestAuthController_Register_Validation(t *testing.T) {
	authController, router := setupAuthControllerTest(t)
	router.POST("/auth/register", authController.Register)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing email", gin.H{"password": "password123", "name": "X"}},
		{"bad email", gin.H{"email": "not-an-email", "password": "password123", "name": "X"}},
		{"short password", gin.H{"email": "a@example.com", "password": "short", "name": "X"}},
		{"missing name", gin.H{"email": "a@example.com", "password": "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	authController, router := setupAuthControllerTest(t)
	router.POST("/auth/register", authController.Register)

	body := gin.H{
		"email":    "dup@example.com",
		"password": "password123",
		"name":     "Dup",
	}
	w := postJSON(t, router, "/auth/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/auth/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_EMAIL_EXISTS")
}

func TestAuthController_Login(t *testing.T) {
	authController, router := setupAuthControllerTest(t)
	router.POST("/auth/register", authController.Register)
	router.POST("/auth/login", authController.Login)

	w := postJSON(t, router, "/auth/register", gin.H{
		"email":    "login@example.com",
		"password": "password123",
		"name":     "Login",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/auth/login", gin.H{
		"email":    "login@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")

	w = postJSON(t, router, "/auth/login", gin.H{
		"email":    "login@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_INVALID_CREDENTIALS")
}

func TestAuthController_GoogleSignIn(t *testing.T) {
	authController, router := setupAuthControllerTest(t)
	router.POST("/auth/google", authController.GoogleSignIn)

	w := postJSON(t, router, "/auth/google", gin.H{
		"id_token": googleTestToken(t, "sub-ctrl", "g@example.com", "G User"),
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")
	assert.Contains(t, w.Body.String(), "g@example.com")

	w = postJSON(t, router, "/auth/google", gin.H{
		"id_token": "garbage-token",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_GOOGLE_TOKEN_INVALID")
}

func TestAuthController_Me(t *testing.T) {
	authController, router := setupAuthControllerTest(t)
	router.POST("/auth/register", authController.Register)

	w := postJSON(t, router, "/auth/register", gin.H{
		"email":    "me@example.com",
		"password": "password123",
		"name":     "Me",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	router.GET("/auth/me", func(c *gin.Context) {
		setUserIDInContext(c, resp.User.ID)
		authController.Me(c)
	})

	req := httptest.NewRequest("GET", "/auth/me", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "me@example.com")
}

func TestAuthController_Me_Unauthenticated(t *testing.T) {
	authController, router := setupAuthControllerTest(t)
	router.GET("/auth/me", authController.Me)

	req := httptest.NewRequest("GET", "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
