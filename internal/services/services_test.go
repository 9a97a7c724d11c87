package services

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rayanjunio/FlexiLease-Autos/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Car{}, &models.Accessory{}, &models.Reserve{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, email string, birth time.Time) models.User {
	t.Helper()
	user := models.User{
		Name:      "Test User",
		CPF:       fmt.Sprintf("%011d", time.Now().UnixNano()%100000000000),
		Birth:     birth,
		Email:     email,
		Password:  "irrelevant-hash",
		Qualified: true,
		CEP:       "01001000",
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedCar(t *testing.T, conn *gorm.DB, valuePerDay float64, accessoryNames ...string) models.Car {
	t.Helper()
	car := models.Car{
		Model:              "GOL G5",
		Color:              "White",
		Year:               2020,
		ValuePerDay:        valuePerDay,
		NumberOfPassengers: 5,
	}
	for _, name := range accessoryNames {
		car.Accessories = append(car.Accessories, models.Accessory{Name: name})
	}
	if err := conn.Create(&car).Error; err != nil {
		t.Fatalf("seed car: %v", err)
	}
	return car
}

func adultBirth() time.Time {
	return time.Date(2000, 1, 10, 0, 0, 0, 0, time.UTC)
}

func minorBirth() time.Time {
	return time.Now().UTC().AddDate(-17, 0, 0)
}
