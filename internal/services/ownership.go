package services

import (
	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
	"github.com/rayanjunio/FlexiLease-Autos/internal/models"
)

// VerifyUserCompatibility rejects access to a resource owned by another user.
func VerifyUserCompatibility(resource models.Ownable, userID uint) error {
	if resource.GetUserID() != userID {
		return apperr.Forbidden("You are not authorized to access this user's information.")
	}
	return nil
}
