package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
	"github.com/rayanjunio/FlexiLease-Autos/internal/cache"
	"github.com/rayanjunio/FlexiLease-Autos/internal/models"
	"github.com/rayanjunio/FlexiLease-Autos/internal/validation"
)

const carCacheTTL = 300 * time.Second

func carCacheKey(id uint) string { return fmt.Sprintf("car:%d", id) }

type CarCreate struct {
	Model              string             `json:"model"`
	Color              string             `json:"color"`
	Year               int                `json:"year"`
	ValuePerDay        float64            `json:"valuePerDay"`
	Accessories        []AccessoryRequest `json:"accessories"`
	NumberOfPassengers int                `json:"numberOfPassengers"`
}

// CarUpdate carries an optional value per updatable field; nil means the
// field is untouched. A non-nil empty Accessories slice still triggers
// synchronization.
type CarUpdate struct {
	Model              *string            `json:"model"`
	Color              *string            `json:"color"`
	Year               *int               `json:"year"`
	ValuePerDay        *float64           `json:"valuePerDay"`
	Accessories        []AccessoryRequest `json:"accessories"`
	NumberOfPassengers *int               `json:"numberOfPassengers"`
}

// CarFilter equality-filters the catalog listing.
type CarFilter struct {
	Model              *string
	Color              *string
	Year               *int
	ValuePerDay        *float64
	NumberOfPassengers *int
}

// CarResponse is the flattened view with accessory names only.
type CarResponse struct {
	ID                 uint               `json:"id"`
	Model              string             `json:"model"`
	Color              string             `json:"color"`
	Year               int                `json:"year"`
	ValuePerDay        float64            `json:"valuePerDay"`
	Accessories        []AccessoryRequest `json:"accessories"`
	NumberOfPassengers int                `json:"numberOfPassengers"`
}

type CarService struct {
	db          *gorm.DB
	accessories *AccessoryService
	cache       cache.Cache
}

func NewCarService(db *gorm.DB, accessories *AccessoryService, carCache cache.Cache) *CarService {
	return &CarService{db: db, accessories: accessories, cache: carCache}
}

func (s *CarService) CreateCar(ctx context.Context, input CarCreate) (*models.Car, error) {
	if len(input.Accessories) == 0 {
		return nil, apperr.BadRequest("User needs at least one accessory.")
	}
	if !validation.ValidCarYear(input.Year) {
		return nil, apperr.BadRequest("The car year must be between 1950 and 2023")
	}
	if hasDuplicateNames(input.Accessories) {
		return nil, apperr.BadRequest("Not allowed duplicated accessories")
	}

	car := models.Car{
		Model:              input.Model,
		Color:              input.Color,
		Year:               input.Year,
		ValuePerDay:        input.ValuePerDay,
		NumberOfPassengers: input.NumberOfPassengers,
	}
	for _, accessory := range input.Accessories {
		car.Accessories = append(car.Accessories, models.Accessory{Name: accessory.Name})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&car).Error
	})
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func (s *CarService) ListCars(ctx context.Context, filter CarFilter, limit, offset int) ([]models.Car, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Car{})
	if filter.Model != nil {
		query = query.Where("model = ?", *filter.Model)
	}
	if filter.Color != nil {
		query = query.Where("color = ?", *filter.Color)
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	if filter.ValuePerDay != nil {
		query = query.Where("value_per_day = ?", *filter.ValuePerDay)
	}
	if filter.NumberOfPassengers != nil {
		query = query.Where("number_of_passengers = ?", *filter.NumberOfPassengers)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cars []models.Car
	if err := query.Preload("Accessories").Limit(limit).Offset(offset).Find(&cars).Error; err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

// GetCarByID serves the car from cache when possible; a miss loads it with
// accessories and refills the cache for carCacheTTL.
func (s *CarService) GetCarByID(ctx context.Context, id uint) (*models.Car, error) {
	key := carCacheKey(id)

	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var car models.Car
		if err := json.Unmarshal([]byte(cached), &car); err == nil {
			return &car, nil
		}
	}

	var car models.Car
	err := s.db.WithContext(ctx).Preload("Accessories").First(&car, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("This car does not exist")
	}
	if err != nil {
		return nil, err
	}

	if serialized, err := json.Marshal(&car); err == nil {
		_ = s.cache.Set(ctx, key, string(serialized), carCacheTTL)
	}
	return &car, nil
}

func (s *CarService) UpdateCar(ctx context.Context, id uint, input CarUpdate) (*models.Car, error) {
	var car models.Car
	err := s.db.WithContext(ctx).Preload("Accessories").First(&car, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("This car does not exist")
	}
	if err != nil {
		return nil, err
	}

	if input.Model != nil {
		car.Model = *input.Model
	}
	if input.Color != nil {
		car.Color = *input.Color
	}
	if input.Year != nil {
		if !validation.ValidCarYear(*input.Year) {
			return nil, apperr.BadRequest("The car year must be between 1950 and 2023")
		}
		car.Year = *input.Year
	}
	if input.ValuePerDay != nil {
		car.ValuePerDay = *input.ValuePerDay
	}
	if input.NumberOfPassengers != nil {
		car.NumberOfPassengers = *input.NumberOfPassengers
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.Accessories != nil {
			synchronized, err := s.accessories.SynchronizeAccessories(tx, &car, input.Accessories)
			if err != nil {
				return err
			}
			car.Accessories = synchronized
		}
		return tx.Omit(clause.Associations).Save(&car).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Del(ctx, carCacheKey(id)); err != nil {
		return nil, err
	}
	return &car, nil
}

// UpdateAccessory toggles a single accessory by name and returns the
// flattened car view.
func (s *CarService) UpdateAccessory(ctx context.Context, carID uint, name string) (*CarResponse, error) {
	var car models.Car
	err := s.db.WithContext(ctx).Preload("Accessories").First(&car, carID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("This car does not exist")
	}
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := s.accessories.HandleAccessoryUpdate(tx, name, &car)
		if err != nil {
			return err
		}
		if created != nil {
			car.Accessories = append(car.Accessories, *created)
		} else {
			kept := car.Accessories[:0]
			for _, accessory := range car.Accessories {
				if accessory.Name != name {
					kept = append(kept, accessory)
				}
			}
			car.Accessories = kept
		}
		return tx.Omit(clause.Associations).Save(&car).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Del(ctx, carCacheKey(carID)); err != nil {
		return nil, err
	}
	return flattenCar(&car), nil
}

func (s *CarService) DeleteCar(ctx context.Context, id uint) error {
	var car models.Car
	err := s.db.WithContext(ctx).Preload("Accessories").First(&car, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("This car does not exist")
	}
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("car_id = ?", id).Delete(&models.Accessory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Car{}, id).Error
	})
	if err != nil {
		return err
	}
	return s.cache.Del(ctx, carCacheKey(id))
}

func flattenCar(car *models.Car) *CarResponse {
	response := &CarResponse{
		ID:                 car.ID,
		Model:              car.Model,
		Color:              car.Color,
		Year:               car.Year,
		ValuePerDay:        car.ValuePerDay,
		Accessories:        make([]AccessoryRequest, 0, len(car.Accessories)),
		NumberOfPassengers: car.NumberOfPassengers,
	}
	for _, accessory := range car.Accessories {
		response.Accessories = append(response.Accessories, AccessoryRequest{Name: accessory.Name})
	}
	return response
}
