package auth

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"pulse/config"
	"pulse/database"
	"pulse/internal/api/respond"
	"pulse/internal/domain/account"
	"pulse/internal/domain/apperr"
	"pulse/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 128
	tokenTTL       = 24 * time.Hour
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateRegistration(name, email, password string) []apperr.FieldError {
	var fields []apperr.FieldError
	if strings.TrimSpace(name) == "" {
		fields = append(fields, apperr.Field("name", "is required"))
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		fields = append(fields, apperr.Field("email", "Invalid email format"))
	}
	if n := len(password); n < minPasswordLen || n > maxPasswordLen {
		fields = append(fields, apperr.Field("password", "must be between 8 and 128 characters"))
	}
	return fields
}

// POST /register
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}
	if fields := validateRegistration(input.Name, input.Email, input.Password); len(fields) > 0 {
		respond.BadRequest(c, "Invalid request body", fields...)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(c, err)
		return
	}

	user, err := account.Register(database.DB.WithContext(c.Request.Context()), input.Name, input.Email, string(hashed))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "userId": user.ID})
}

// POST /login
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}

	var user users.User
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := database.DB.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if user.Password == nil || *user.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This account uses Google sign-in"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := issueAppJWT(user)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

func issueAppJWT(user users.User) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	return t.SignedString([]byte(config.JWT_SECRET))
}
