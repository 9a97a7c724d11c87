package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
	"github.com/rayanjunio/FlexiLease-Autos/internal/models"
)

func assertValidationError(t *testing.T, err error, code int) *apperr.ValidationError {
	t.Helper()
	verr, ok := err.(*apperr.ValidationError)
	if !ok {
		t.Fatalf("got %v (%T), want ValidationError", err, err)
	}
	if verr.Code != code {
		t.Fatalf("code = %d, want %d (message %q)", verr.Code, code, verr.Message)
	}
	return verr
}

func TestCreateAccessory(t *testing.T) {
	conn := setupTestDB(t)
	service := NewAccessoryService(conn)
	ctx := context.Background()

	accessory, err := service.CreateAccessory(ctx, "Air-conditioner")
	if err != nil {
		t.Fatalf("CreateAccessory: %v", err)
	}
	if accessory.ID == 0 || accessory.Name != "Air-conditioner" {
		t.Errorf("created accessory = %+v", accessory)
	}
	if accessory.CarID != 0 {
		t.Errorf("fresh accessory should have no car association, got car %d", accessory.CarID)
	}
}

func TestCreateAccessoryRejectsBlankNames(t *testing.T) {
	conn := setupTestDB(t)
	service := NewAccessoryService(conn)
	ctx := context.Background()

	for _, name := range []string{"", " ", "   "} {
		_, err := service.CreateAccessory(ctx, name)
		assertValidationError(t, err, http.StatusBadRequest)
	}

	var count int64
	conn.Model(&models.Accessory{}).Count(&count)
	if count != 0 {
		t.Errorf("blank names were persisted, count = %d", count)
	}
}

func TestHandleAccessoryUpdateToggles(t *testing.T) {
	conn := setupTestDB(t)
	service := NewAccessoryService(conn)
	car := seedCar(t, conn, 50, "Air-conditioner")

	created, err := service.HandleAccessoryUpdate(conn, "Turbo mode", &car)
	if err != nil {
		t.Fatalf("HandleAccessoryUpdate add: %v", err)
	}
	if created == nil || created.CarID != car.ID {
		t.Fatalf("expected a new accessory attached to car %d, got %+v", car.ID, created)
	}

	removed, err := service.HandleAccessoryUpdate(conn, "Air-conditioner", &car)
	if err != nil {
		t.Fatalf("HandleAccessoryUpdate remove: %v", err)
	}
	if removed != nil {
		t.Fatalf("expected removal signal (nil), got %+v", removed)
	}

	var names []string
	conn.Model(&models.Accessory{}).Where("car_id = ?", car.ID).Pluck("name", &names)
	if len(names) != 1 || names[0] != "Turbo mode" {
		t.Errorf("remaining accessories = %v, want [Turbo mode]", names)
	}
}

func TestHandleAccessoryUpdateRejectsBlankName(t *testing.T) {
	conn := setupTestDB(t)
	service := NewAccessoryService(conn)
	car := seedCar(t, conn, 50, "Air-conditioner")

	_, err := service.HandleAccessoryUpdate(conn, " ", &car)
	assertValidationError(t, err, http.StatusBadRequest)
}

func TestSynchronizeAccessoriesRejectsDuplicates(t *testing.T) {
	conn := setupTestDB(t)
	service := NewAccessoryService(conn)

	requested := []AccessoryRequest{{Name: "GPS"}, {Name: "GPS"}}

	empty := seedCar(t, conn, 50)
	_, err := service.SynchronizeAccessories(conn, &empty, requested)
	assertValidationError(t, err, http.StatusBadRequest)

	populated := seedCar(t, conn, 60, "Air-conditioner")
	_, err = service.SynchronizeAccessories(conn, &populated, requested)
	assertValidationError(t, err, http.StatusBadRequest)
}

func TestSynchronizeAccessoriesTreatsRepeatedNameAsRemoval(t *testing.T) {
	conn := setupTestDB(t)
	service := NewAccessoryService(conn)
	car := seedCar(t, conn, 50, "Air-conditioner")

	result, err := service.SynchronizeAccessories(conn, &car, []AccessoryRequest{
		{Name: "Air-conditioner"},
		{Name: "Turbo mode"},
	})
	if err != nil {
		t.Fatalf("SynchronizeAccessories: %v", err)
	}
	if len(result) != 1 || result[0].Name != "Turbo mode" {
		t.Fatalf("result = %+v, want only Turbo mode", result)
	}

	var names []string
	conn.Model(&models.Accessory{}).Where("car_id = ?", car.ID).Pluck("name", &names)
	if len(names) != 1 || names[0] != "Turbo mode" {
		t.Errorf("persisted accessories = %v, want [Turbo mode]", names)
	}
}

func TestSynchronizeAccessoriesRemovesUnmentioned(t *testing.T) {
	conn := setupTestDB(t)
	service := NewAccessoryService(conn)
	car := seedCar(t, conn, 50, "Air-conditioner", "Baby seat")

	result, err := service.SynchronizeAccessories(conn, &car, []AccessoryRequest{{Name: "GPS"}})
	if err != nil {
		t.Fatalf("SynchronizeAccessories: %v", err)
	}
	if len(result) != 1 || result[0].Name != "GPS" {
		t.Fatalf("result = %+v, want only GPS", result)
	}

	var count int64
	conn.Model(&models.Accessory{}).Where("car_id = ?", car.ID).Count(&count)
	if count != 1 {
		t.Errorf("persisted accessory count = %d, want 1", count)
	}
}
