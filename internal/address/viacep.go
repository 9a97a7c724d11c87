// Package address resolves Brazilian postal codes through the ViaCEP API.
package address

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
)

var cepRegex = regexp.MustCompile(`^\d{8}$`)

// Address carries the fields ViaCEP returns for a postal code.
type Address struct {
	Neighborhood string `json:"bairro"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	City         string `json:"localidade"`
	UF           string `json:"uf"`
	Erro         bool   `json:"erro"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://viacep.com.br"
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup fetches the address for an 8-digit CEP. An unknown code maps to a
// not-found error, transport failures to a 500, both as ValidationError so
// they surface in the standard envelope.
func (c *Client) Lookup(ctx context.Context, cep string) (*Address, error) {
	if !cepRegex.MatchString(cep) {
		return nil, apperr.BadRequest("Typed CEP is invalid")
	}

	url := fmt.Sprintf("%s/ws/%s/json", c.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.Internal("Error fetching data from ViaCEP API")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Internal("Error fetching data from ViaCEP API")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Internal("Error fetching data from ViaCEP API")
	}

	var addr Address
	if err := json.NewDecoder(resp.Body).Decode(&addr); err != nil {
		return nil, apperr.Internal("Error fetching data from ViaCEP API")
	}
	if addr.Erro {
		return nil, apperr.NotFound("CEP not found")
	}
	return &addr, nil
}
