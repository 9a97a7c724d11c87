package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
	"github.com/rayanjunio/FlexiLease-Autos/internal/models"
	"github.com/rayanjunio/FlexiLease-Autos/internal/validation"
)

const hoursPerDay = 24

// ReserveResponse is the wire view of a reservation: dates as dd/mm/yyyy,
// car and user resolved to their ids.
type ReserveResponse struct {
	ID         uint    `json:"id"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	FinalValue float64 `json:"finalValue"`
	CarID      uint    `json:"carId"`
	UserID     uint    `json:"userId"`
}

type ReserveUpdate struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	CarID     *uint   `json:"carId"`
}

// ReserveFilter equality-filters a user's reservation listing.
type ReserveFilter struct {
	CarID *uint
}

type ReserveService struct {
	db *gorm.DB
}

func NewReserveService(db *gorm.DB) *ReserveService {
	return &ReserveService{db: db}
}

// CreateReserve books a car for a date range after checking eligibility and
// conflicts. The conflict check and insert share one transaction so two
// concurrent bookings cannot both pass it.
func (s *ReserveService) CreateReserve(ctx context.Context, startDate, endDate string, carID, userID uint) (*ReserveResponse, error) {
	var car models.Car
	if err := s.db.WithContext(ctx).First(&car, carID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Typed car id does not exist")
		}
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if err != nil || validation.Age(user.Birth, time.Now()) < 18 {
		return nil, apperr.BadRequest("User must be over 18 years old to make a reservation.")
	}

	start, err := validation.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := validation.ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, apperr.BadRequest("End date must be after start date.")
	}

	days := end.Sub(start).Hours() / hoursPerDay
	if days < 1 {
		return nil, apperr.BadRequest("A reserve needs at least one day.")
	}

	// Creation bills the day span plus one extra day's value. The update
	// path folds that day into an inclusive count instead.
	finalValue := car.ValuePerDay*days + car.ValuePerDay

	reserve := models.Reserve{
		StartDate:  start,
		EndDate:    end,
		FinalValue: finalValue,
		CarID:      carID,
		UserID:     userID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkConflicts(tx, start, end, carID, userID, 0); err != nil {
			return err
		}
		return tx.Create(&reserve).Error
	})
	if err != nil {
		return nil, err
	}
	return formatReserve(&reserve), nil
}

func (s *ReserveService) ListReserves(ctx context.Context, userID uint, filter ReserveFilter, limit, offset int) ([]ReserveResponse, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Reserve{}).Where("user_id = ?", userID)
	if filter.CarID != nil {
		query = query.Where("car_id = ?", *filter.CarID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reserves []models.Reserve
	if err := query.Limit(limit).Offset(offset).Find(&reserves).Error; err != nil {
		return nil, 0, err
	}

	responses := make([]ReserveResponse, 0, len(reserves))
	for i := range reserves {
		responses = append(responses, *formatReserve(&reserves[i]))
	}
	return responses, total, nil
}

func (s *ReserveService) GetReserveByID(ctx context.Context, id, userID uint) (*ReserveResponse, error) {
	var reserve models.Reserve
	if err := s.db.WithContext(ctx).First(&reserve, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("This reserve does not exist")
		}
		return nil, err
	}
	if err := VerifyUserCompatibility(&reserve, userID); err != nil {
		return nil, err
	}
	return formatReserve(&reserve), nil
}

// UpdateReserve re-validates dates and re-runs both conflict checks against
// the candidate car, excluding the reservation's own row.
func (s *ReserveService) UpdateReserve(ctx context.Context, id, userID uint, input ReserveUpdate) (*ReserveResponse, error) {
	var reserve models.Reserve
	if err := s.db.WithContext(ctx).Preload("Car").First(&reserve, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("This reserve does not exist")
		}
		return nil, err
	}
	if err := VerifyUserCompatibility(&reserve, userID); err != nil {
		return nil, err
	}

	car := reserve.Car
	if input.CarID != nil {
		if err := s.db.WithContext(ctx).First(&car, *input.CarID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("This car does not exist")
			}
			return nil, err
		}
	}

	start := reserve.StartDate
	if input.StartDate != nil {
		parsed, err := validation.ParseDate(*input.StartDate)
		if err != nil {
			return nil, err
		}
		start = parsed
	}
	end := reserve.EndDate
	if input.EndDate != nil {
		parsed, err := validation.ParseDate(*input.EndDate)
		if err != nil {
			return nil, err
		}
		end = parsed
	}
	if !end.After(start) {
		return nil, apperr.BadRequest("End date must be after start date.")
	}

	// Inclusive day count; the extra day charged at creation is already
	// folded in here.
	days := end.Sub(start).Hours()/hoursPerDay + 1
	if days <= 0 {
		return nil, apperr.BadRequest("A reserve needs at least one day.")
	}

	reserve.StartDate = start
	reserve.EndDate = end
	reserve.CarID = car.ID
	reserve.FinalValue = car.ValuePerDay * days

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkConflicts(tx, start, end, car.ID, userID, reserve.ID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&reserve).Error
	})
	if err != nil {
		return nil, err
	}
	return formatReserve(&reserve), nil
}

func (s *ReserveService) DeleteReserve(ctx context.Context, id, userID uint) error {
	var reserve models.Reserve
	if err := s.db.WithContext(ctx).First(&reserve, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("This reserve does not exist or does not belong to the user.")
		}
		return err
	}
	if err := VerifyUserCompatibility(&reserve, userID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Reserve{}, id).Error
}

// checkConflicts runs the car and user overlap checks. excludeID skips the
// reservation's own row on update; zero excludes nothing.
func (s *ReserveService) checkConflicts(tx *gorm.DB, start, end time.Time, carID, userID, excludeID uint) error {
	var carReserves []models.Reserve
	if err := tx.Where("car_id = ? AND id <> ?", carID, excludeID).Find(&carReserves).Error; err != nil {
		return err
	}
	if overlapsAny(start, end, carReserves) {
		return apperr.BadRequest("This car is already reserved for the selected dates.")
	}

	var userReserves []models.Reserve
	if err := tx.Where("user_id = ? AND id <> ?", userID, excludeID).Find(&userReserves).Error; err != nil {
		return err
	}
	if overlapsAny(start, end, userReserves) {
		return apperr.BadRequest("User cannot make another reservation for the same period.")
	}
	return nil
}

// overlapsAny reports whether [start, end] conflicts with any existing
// interval. Endpoints are inclusive: a candidate touching an existing
// boundary date conflicts, one starting the day after does not.
func overlapsAny(start, end time.Time, existing []models.Reserve) bool {
	for _, reserve := range existing {
		if within(start, reserve) || within(end, reserve) ||
			(start.Before(reserve.StartDate) && end.After(reserve.EndDate)) {
			return true
		}
	}
	return false
}

func within(date time.Time, reserve models.Reserve) bool {
	return !date.Before(reserve.StartDate) && !date.After(reserve.EndDate)
}

func formatReserve(reserve *models.Reserve) *ReserveResponse {
	return &ReserveResponse{
		ID:         reserve.ID,
		StartDate:  validation.FormatDate(reserve.StartDate),
		EndDate:    validation.FormatDate(reserve.EndDate),
		FinalValue: reserve.FinalValue,
		CarID:      reserve.CarID,
		UserID:     reserve.UserID,
	}
}
