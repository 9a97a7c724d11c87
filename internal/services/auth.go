package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
	"github.com/rayanjunio/FlexiLease-Autos/internal/auth"
	"github.com/rayanjunio/FlexiLease-Autos/internal/models"
	"github.com/rayanjunio/FlexiLease-Autos/internal/validation"
)

type AuthService struct {
	db     *gorm.DB
	tokens *auth.Manager
}

func NewAuthService(db *gorm.DB, tokens *auth.Manager) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// CreateAuth checks the credentials and issues a bearer token. Absent user
// and wrong password produce the same message, so callers cannot enumerate
// registered emails.
func (s *AuthService) CreateAuth(ctx context.Context, email, password string) (string, error) {
	if !validation.ValidEmail(email) {
		return "", apperr.BadRequest("Typed email is not valid")
	}

	var user models.User
	err := s.db.WithContext(ctx).Select("id", "password").Where("email = ?", email).First(&user).Error
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", apperr.BadRequest("Typed email/password is not valid")
	}

	return s.tokens.GenerateToken(user.ID)
}
