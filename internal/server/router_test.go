package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rayanjunio/FlexiLease-Autos/internal/address"
	"github.com/rayanjunio/FlexiLease-Autos/internal/auth"
	"github.com/rayanjunio/FlexiLease-Autos/internal/cache"
	"github.com/rayanjunio/FlexiLease-Autos/internal/models"
)

func setupServer(t *testing.T) *echo.Echo {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Car{}, &models.Accessory{}, &models.Reserve{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	viaCEP := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"bairro":"Sé","logradouro":"Praça da Sé","complemento":"","localidade":"São Paulo","uf":"SP"}`)
	}))
	t.Cleanup(viaCEP.Close)

	return New(Deps{
		DB:      conn,
		Cache:   cache.NewMemory(),
		Address: address.NewClient(viaCEP.URL),
		Tokens:  auth.NewManager("test-secret"),
		Logger:  zap.NewNop(),
	})
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func registerAndLogin(t *testing.T, e *echo.Echo, cpf, email string) (uint, string) {
	t.Helper()
	payload := fmt.Sprintf(`{
		"name": "Joaozinho Ciclano",
		"cpf": %q,
		"birth": "03/03/2000",
		"cep": "01001000",
		"email": %q,
		"password": "123456"
	}`, cpf, email)
	rec := doJSON(t, e, http.MethodPost, "/api/v1/user", "", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body %s", rec.Code, rec.Body.String())
	}
	userID := uint(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, e, http.MethodPost, "/api/v1/auth", "", fmt.Sprintf(`{"email": %q, "password": "123456"}`, email))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", rec.Code, rec.Body.String())
	}
	token, _ := decodeBody(t, rec)["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return userID, token
}

func TestHealthEndpoint(t *testing.T) {
	e := setupServer(t)
	rec := doJSON(t, e, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestFullRentalFlow(t *testing.T) {
	e := setupServer(t)
	_, token := registerAndLogin(t, e, "529.982.247-25", "joazinho@email.com")

	// The catalog is gated behind authentication.
	rec := doJSON(t, e, http.MethodGet, "/api/v1/car", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unauthenticated list: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPost, "/api/v1/car", token, `{
		"model": "GOL G5",
		"color": "White",
		"year": 2021,
		"valuePerDay": 50,
		"accessories": [{"name": "Air-conditioner"}],
		"numberOfPassengers": 5
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create car: status = %d, body %s", rec.Code, rec.Body.String())
	}
	carID := uint(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, e, http.MethodGet, "/api/v1/car", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list cars: status = %d", rec.Code)
	}
	listing := decodeBody(t, rec)
	if listing["total"].(float64) != 1 || listing["limit"].(float64) != 10 || listing["offsets"].(float64) != 1 {
		t.Errorf("listing envelope = %v", listing)
	}
	if _, ok := listing["car"].([]any); !ok {
		t.Errorf("listing lacks car array: %v", listing)
	}

	rec = doJSON(t, e, http.MethodPost, "/api/v1/reserve", token, fmt.Sprintf(`{
		"startDate": "10/01/2024",
		"endDate": "15/01/2024",
		"carId": %d
	}`, carID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create reserve: status = %d, body %s", rec.Code, rec.Body.String())
	}
	reserve := decodeBody(t, rec)
	if reserve["finalValue"].(float64) != 300 {
		t.Errorf("finalValue = %v, want 300", reserve["finalValue"])
	}
	if reserve["startDate"] != "10/01/2024" || reserve["endDate"] != "15/01/2024" {
		t.Errorf("dates = %v..%v", reserve["startDate"], reserve["endDate"])
	}
	reserveID := uint(reserve["id"].(float64))

	rec = doJSON(t, e, http.MethodGet, "/api/v1/reserve", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list reserves: status = %d", rec.Code)
	}
	reserveListing := decodeBody(t, rec)
	if reserveListing["total"].(float64) != 1 {
		t.Errorf("reserve listing = %v", reserveListing)
	}

	// A second renter cannot take the same car for overlapping dates, and
	// cannot read the first renter's reservation.
	_, otherToken := registerAndLogin(t, e, "168.995.350-09", "second@email.com")

	rec = doJSON(t, e, http.MethodPost, "/api/v1/reserve", otherToken, fmt.Sprintf(`{
		"startDate": "12/01/2024",
		"endDate": "20/01/2024",
		"carId": %d
	}`, carID))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("conflicting reserve: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["message"] != "This car is already reserved for the selected dates." {
		t.Errorf("message = %v", body["message"])
	}

	rec = doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/v1/reserve/%d", reserveID), otherToken, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-user reserve read: status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/api/v1/reserve/%d", reserveID), token, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete reserve: status = %d", rec.Code)
	}
}

func TestCarAccessoryPatch(t *testing.T) {
	e := setupServer(t)
	_, token := registerAndLogin(t, e, "529.982.247-25", "joazinho@email.com")

	rec := doJSON(t, e, http.MethodPost, "/api/v1/car", token, `{
		"model": "Uno",
		"color": "Black",
		"year": 2010,
		"valuePerDay": 30,
		"accessories": [{"name": "GPS"}],
		"numberOfPassengers": 4
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create car: status = %d, body %s", rec.Code, rec.Body.String())
	}
	carID := uint(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, e, http.MethodPatch, fmt.Sprintf("/api/v1/car/%d", carID), token, `{"name": "Turbo mode"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch accessory: status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	accessories, _ := body["accessories"].([]any)
	if len(accessories) != 2 {
		t.Errorf("accessories = %v, want 2 entries", body["accessories"])
	}

	rec = doJSON(t, e, http.MethodPatch, fmt.Sprintf("/api/v1/car/%d", carID), token, `{"name": ""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty accessory name: status = %d, want 400", rec.Code)
	}
}

func TestUserEndpointsEnforceOwnership(t *testing.T) {
	e := setupServer(t)
	userID, token := registerAndLogin(t, e, "529.982.247-25", "joazinho@email.com")
	otherID, otherToken := registerAndLogin(t, e, "168.995.350-09", "second@email.com")

	rec := doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/v1/user/%d", userID), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("self read: status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["email"] != "joazinho@email.com" || body["qualified"] != true {
		t.Errorf("user body = %v", body)
	}
	if _, leaked := body["password"]; leaked {
		t.Error("response leaks the password field")
	}

	rec = doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/v1/user/%d", otherID), token, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-user read: status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPut, fmt.Sprintf("/api/v1/user/%d", userID), otherToken, `{"name": "Hijacked"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-user update: status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/api/v1/user/%d", userID), token, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("self delete: status = %d", rec.Code)
	}

	// The deleted user's token no longer authenticates.
	rec = doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/v1/user/%d", userID), token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("deleted user token: status = %d, want 401", rec.Code)
	}
}
