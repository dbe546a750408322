// Package receita queries the public minhareceita.org mirror of the federal
// CNPJ registry. Enrichment only: whatever it returns is displayed next to a
// verdict and never influences the decision.
package receita

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrNotFound = errors.New("cnpj not found in registry")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://minhareceita.org"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Company is the subset of registry data shown alongside a verdict.
type Company struct {
	CNPJ        string `json:"cnpj"`
	LegalName   string `json:"razao_social"`
	TradeName   string `json:"nome_fantasia"`
	LegalNature string `json:"natureza_juridica"`
	Status      string `json:"descricao_situacao_cadastral"`
	StatusDate  string `json:"data_situacao_cadastral"`
}

// GetByCNPJ fetches registry data for a CNPJ (any punctuation accepted).
func (c *Client) GetByCNPJ(ctx context.Context, cnpj string) (*Company, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+cnpj, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry lookup failed with status %d", resp.StatusCode)
	}

	var company Company
	if err := json.NewDecoder(resp.Body).Decode(&company); err != nil {
		return nil, err
	}
	return &company, nil
}
