package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"polizacrm/server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func signTestToken(t *testing.T, userID string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"name": "Agente de Prueba",
		"exp":  time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	validToken := signTestToken(t, "user-1", time.Hour)
	expiredToken := signTestToken(t, "user-1", -time.Hour)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"valid token", "Bearer " + validToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + validToken, http.StatusUnauthorized},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(AuthMiddleware(testJWTSecret))
			router.GET("/test", func(c *gin.Context) {
				userID, _ := c.Get("userID")
				c.JSON(http.StatusOK, gin.H{"user_id": userID})
			})

			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), "user-1")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("contraseña123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{
		Name:         "Laura Agente",
		Email:        "laura@agencia.mx",
		PasswordHash: string(hash),
		Role:         models.UserRoleAgent,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)

	inactive := models.User{
		Name:         "Baja",
		Email:        "baja@agencia.mx",
		PasswordHash: string(hash),
		IsActive:     false,
	}
	require.NoError(t, db.Create(&inactive).Error)

	controller := NewAuthController(db, testJWTSecret)
	router := gin.New()
	router.POST("/auth/login", controller.Login)

	doLogin := func(email, password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(LoginRequest{Email: email, Password: password})
		req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("valid credentials", func(t *testing.T) {
		w := doLogin("laura@agencia.mx", "contraseña123")
		require.Equal(t, http.StatusOK, w.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, user.ID, resp.UserID)
		assert.Equal(t, "agent", resp.Role)

		// Выданный токен проходит наш же middleware
		protected := gin.New()
		protected.Use(AuthMiddleware(testJWTSecret))
		protected.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		pw := httptest.NewRecorder()
		protected.ServeHTTP(pw, req)
		assert.Equal(t, http.StatusOK, pw.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doLogin("laura@agencia.mx", "incorrecta")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		w := doLogin("nadie@agencia.mx", "contraseña123")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("inactive user", func(t *testing.T) {
		w := doLogin("baja@agencia.mx", "contraseña123")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
