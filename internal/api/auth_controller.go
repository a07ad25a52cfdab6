package api

import (
	"net/http"
	"time"

	"polizacrm/server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthController управляет API endpoints для авторизации
type AuthController struct {
	db        *gorm.DB
	jwtSecret string
}

// NewAuthController создает новый контроллер авторизации
func NewAuthController(db *gorm.DB, jwtSecret string) *AuthController {
	return &AuthController{db: db, jwtSecret: jwtSecret}
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse представляет ответ на вход
type LoginResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

// Login обрабатывает вход сотрудника агентства
// POST /api/v1/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Parámetros de solicitud inválidos",
			"details": err.Error(),
		})
		return
	}

	var user models.User
	if err := ac.db.Where("email = ? AND is_active = ?", req.Email, true).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Correo o contraseña incorrectos",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error al verificar las credenciales",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Correo o contraseña incorrectos",
		})
		return
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"role": string(user.Role),
		"exp":  expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(ac.jwtSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error al generar el token",
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     signed,
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		ExpiresAt: expiresAt.Unix(),
	})
}
