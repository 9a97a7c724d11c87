package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rayanjunio/FlexiLease-Autos/internal/address"
	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
	"github.com/rayanjunio/FlexiLease-Autos/internal/models"
	"github.com/rayanjunio/FlexiLease-Autos/internal/validation"
)

const minPasswordLength = 6

type UserCreate struct {
	Name     string `json:"name"`
	CPF      string `json:"cpf"`
	Birth    string `json:"birth"`
	CEP      string `json:"cep"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserUpdate struct {
	Name     *string `json:"name"`
	CPF      *string `json:"cpf"`
	Birth    *string `json:"birth"`
	CEP      *string `json:"cep"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UserResponse is the formatted user view; it never carries the password hash.
type UserResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	CPF          string `json:"cpf"`
	Birth        string `json:"birth"`
	Email        string `json:"email"`
	Qualified    bool   `json:"qualified"`
	CEP          string `json:"cep"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
	Complement   string `json:"complement"`
	City         string `json:"city"`
	UF           string `json:"uf"`
}

type UserService struct {
	db      *gorm.DB
	address *address.Client
}

func NewUserService(db *gorm.DB, addressClient *address.Client) *UserService {
	return &UserService{db: db, address: addressClient}
}

func (s *UserService) CreateUser(ctx context.Context, input UserCreate) (*UserResponse, error) {
	birth, err := validation.ParseDate(input.Birth)
	if err != nil {
		return nil, err
	}
	qualified := validation.Age(birth, time.Now()) >= 18

	if !validation.ValidCPF(input.CPF) {
		return nil, apperr.BadRequest("Typed CPF is invalid.")
	}
	if taken, err := s.fieldTaken(ctx, "cpf", input.CPF, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.BadRequest("Typed CPF already is registered.")
	}

	if !validation.ValidEmail(input.Email) {
		return nil, apperr.BadRequest("Typed email is not valid")
	}
	if taken, err := s.fieldTaken(ctx, "email", input.Email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.BadRequest("Typed email already is registered")
	}

	if len(input.Password) < minPasswordLength {
		return nil, apperr.BadRequest("Password must have at least 6 characters")
	}

	addr, err := s.address.Lookup(ctx, input.CEP)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         input.Name,
		CPF:          input.CPF,
		Birth:        birth,
		Email:        input.Email,
		Password:     string(hash),
		Qualified:    qualified,
		CEP:          input.CEP,
		Neighborhood: addr.Neighborhood,
		Street:       addr.Street,
		Complement:   addr.Complement,
		City:         addr.City,
		UF:           addr.UF,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return formatUser(&user), nil
}

func (s *UserService) GetUserByID(ctx context.Context, id, authenticatedUserID uint) (*UserResponse, error) {
	if id != authenticatedUserID {
		return nil, apperr.Forbidden("You are not authorized to access this user's information")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("This user does not exist")
		}
		return nil, err
	}
	return formatUser(&user), nil
}

// UpdateUser applies any present fields, re-validating each exactly as in
// creation; uniqueness checks exclude the user's own row.
func (s *UserService) UpdateUser(ctx context.Context, id uint, input UserUpdate) (*UserResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("This user does not exist")
		}
		return nil, err
	}

	if input.CPF != nil {
		if !validation.ValidCPF(*input.CPF) {
			return nil, apperr.BadRequest("Typed CPF is invalid.")
		}
		if taken, err := s.fieldTaken(ctx, "cpf", *input.CPF, user.ID); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.BadRequest("Typed CPF already is registered.")
		}
		user.CPF = *input.CPF
	}

	if input.Email != nil {
		if !validation.ValidEmail(*input.Email) {
			return nil, apperr.BadRequest("Typed email is not valid")
		}
		if taken, err := s.fieldTaken(ctx, "email", *input.Email, user.ID); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.BadRequest("Typed email already is registered.")
		}
		user.Email = *input.Email
	}

	if input.CEP != nil {
		addr, err := s.address.Lookup(ctx, *input.CEP)
		if err != nil {
			return nil, err
		}
		user.CEP = *input.CEP
		user.Neighborhood = addr.Neighborhood
		user.Street = addr.Street
		user.Complement = addr.Complement
		user.City = addr.City
		user.UF = addr.UF
	}

	if input.Birth != nil {
		birth, err := validation.ParseDate(*input.Birth)
		if err != nil {
			return nil, err
		}
		user.Birth = birth
		user.Qualified = validation.Age(birth, time.Now()) >= 18
	}

	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, apperr.BadRequest("Password must have at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return formatUser(&user), nil
}

// DeleteUser removes the user's reservations and then the user, atomically.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("This user does not exist")
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Reserve{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

// fieldTaken reports whether another user already holds the given value.
func (s *UserService) fieldTaken(ctx context.Context, column, value string, selfID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where(column+" = ? AND id <> ?", value, selfID).
		Count(&count).Error
	return count > 0, err
}

func formatUser(user *models.User) *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		CPF:          user.CPF,
		Birth:        validation.FormatDate(user.Birth),
		Email:        user.Email,
		Qualified:    user.Qualified,
		CEP:          user.CEP,
		Neighborhood: user.Neighborhood,
		Street:       user.Street,
		Complement:   user.Complement,
		City:         user.City,
		UF:           user.UF,
	}
}
