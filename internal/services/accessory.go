package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
	"github.com/rayanjunio/FlexiLease-Autos/internal/models"
)

// AccessoryRequest is the caller-supplied shape for an accessory: a bare name.
type AccessoryRequest struct {
	Name string `json:"name"`
}

// AccessoryService reconciles a car's accessory collection against requested
// target sets. Mutating operations run on the transaction handle the car
// catalog passes in, so accessory changes commit together with the car.
type AccessoryService struct {
	db *gorm.DB
}

func NewAccessoryService(db *gorm.DB) *AccessoryService {
	return &AccessoryService{db: db}
}

// CreateAccessory persists a standalone accessory with no car association.
func (s *AccessoryService) CreateAccessory(ctx context.Context, name string) (*models.Accessory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.BadRequest("Accessory name cannot be empty")
	}
	accessory := &models.Accessory{Name: name}
	if err := s.db.WithContext(ctx).Create(accessory).Error; err != nil {
		return nil, err
	}
	return accessory, nil
}

// HandleAccessoryUpdate toggles one accessory on a car by exact name: an
// existing accessory with that name is deleted and nil is returned, otherwise
// a new accessory is created and attached.
func (s *AccessoryService) HandleAccessoryUpdate(tx *gorm.DB, name string, car *models.Car) (*models.Accessory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.BadRequest("Accessory name cannot be empty")
	}

	for i := range car.Accessories {
		if car.Accessories[i].Name == name {
			if err := tx.Delete(&car.Accessories[i]).Error; err != nil {
				return nil, err
			}
			return nil, nil
		}
	}

	accessory := &models.Accessory{Name: name, CarID: car.ID}
	if err := tx.Create(accessory).Error; err != nil {
		return nil, err
	}
	return accessory, nil
}

// SynchronizeAccessories reconciles the car's accessory set against the
// requested name list. Reconciliation is by name, not identity: a requested
// name already on the car acts as a removal signal, a new name is created
// fresh, and current accessories absent from the request are removed too.
func (s *AccessoryService) SynchronizeAccessories(tx *gorm.DB, car *models.Car, requested []AccessoryRequest) ([]models.Accessory, error) {
	if hasDuplicateNames(requested) {
		return nil, apperr.BadRequest("Not allowed duplicated accessories")
	}

	currentNames := make(map[string]bool, len(car.Accessories))
	for _, accessory := range car.Accessories {
		currentNames[accessory.Name] = true
	}

	result := make([]models.Accessory, 0, len(requested))
	for _, req := range requested {
		if currentNames[req.Name] {
			continue
		}
		accessory := models.Accessory{Name: req.Name, CarID: car.ID}
		if err := tx.Create(&accessory).Error; err != nil {
			return nil, err
		}
		result = append(result, accessory)
	}

	for i := range car.Accessories {
		if err := tx.Delete(&car.Accessories[i]).Error; err != nil {
			return nil, err
		}
	}

	return result, nil
}

func hasDuplicateNames(accessories []AccessoryRequest) bool {
	seen := make(map[string]bool, len(accessories))
	for _, accessory := range accessories {
		if seen[accessory.Name] {
			return true
		}
		seen[accessory.Name] = true
	}
	return false
}
