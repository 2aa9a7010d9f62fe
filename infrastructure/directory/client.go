// ABOUTME: Duty-directory API client implementing the DirectoryAPI contract
// ABOUTME: Maps the remote payload into domain records and wraps failures as DataUnavailable

package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	"pharmacy-duty-api/core/domain"
	coreerrors "pharmacy-duty-api/core/errors"
	"pharmacy-duty-api/core/interfaces"
)

const sourceName = "duty-directory"

// Client talks to the remote duty-pharmacy directory.
// The HTTP client is expected to carry the directory's auth header.
type Client struct {
	baseURL    string
	httpClient interfaces.HTTPClient
	logger     interfaces.Logger
}

// NewClient creates a new directory client
func NewClient(baseURL string, httpClient interfaces.HTTPClient, logger interfaces.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("directory base URL cannot be empty")
	}
	if httpClient == nil {
		return nil, errors.New("HTTP client cannot be nil")
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// envelope is the directory's response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// rawPharmacy mirrors the directory's pharmacy payload field names.
type rawPharmacy struct {
	PharmacyID        string  `json:"pharmacyId"`
	PharmacyName      string  `json:"pharmacyName"`
	Address           string  `json:"address"`
	City              string  `json:"city"`
	District          string  `json:"district"`
	Directions        string  `json:"directions"`
	Phone             string  `json:"phone"`
	PharmacyDutyStart string  `json:"pharmacyDutyStart"`
	PharmacyDutyEnd   string  `json:"pharmacyDutyEnd"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
}

// rawCity mirrors the directory's city payload; the same shape carries
// district names when querying districts of a city.
type rawCity struct {
	Name string `json:"cities"`
	Slug string `json:"slug"`
}

// FetchAllPharmacies returns every pharmacy currently on duty nationwide.
func (c *Client) FetchAllPharmacies(ctx context.Context) ([]domain.Pharmacy, error) {
	data, err := c.fetch(ctx, c.baseURL+"/all")
	if err != nil {
		return nil, err
	}

	return decodePharmacies(data)
}

// FetchPharmaciesByCity returns duty pharmacies for a city slug, optionally
// narrowed by district slug.
func (c *Client) FetchPharmaciesByCity(ctx context.Context, citySlug, districtSlug string) ([]domain.Pharmacy, error) {
	query := url.Values{}
	query.Set("city", citySlug)
	if districtSlug != "" {
		query.Set("district", districtSlug)
	}

	data, err := c.fetch(ctx, c.baseURL+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	return decodePharmacies(data)
}

// FetchCities returns the canonical city list known to the directory.
func (c *Client) FetchCities(ctx context.Context) ([]domain.City, error) {
	data, err := c.fetch(ctx, c.baseURL+"/cities")
	if err != nil {
		return nil, err
	}

	var raw []rawCity
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &coreerrors.DataUnavailableError{Source: sourceName, Err: err}
	}

	cities := make([]domain.City, 0, len(raw))
	for _, entry := range raw {
		cities = append(cities, domain.City{Name: entry.Name, Slug: entry.Slug})
	}
	return cities, nil
}

// FetchDistricts returns the canonical districts of a city slug.
func (c *Client) FetchDistricts(ctx context.Context, citySlug string) ([]domain.District, error) {
	query := url.Values{}
	query.Set("city", citySlug)

	data, err := c.fetch(ctx, c.baseURL+"/cities?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var raw []rawCity
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &coreerrors.DataUnavailableError{Source: sourceName, Err: err}
	}

	districts := make([]domain.District, 0, len(raw))
	for _, entry := range raw {
		districts = append(districts, domain.District{Name: entry.Name, Slug: entry.Slug})
	}
	return districts, nil
}

// FetchPharmacyByID returns a single pharmacy by its directory identifier.
func (c *Client) FetchPharmacyByID(ctx context.Context, id string) (*domain.Pharmacy, error) {
	query := url.Values{}
	query.Set("id", id)

	data, err := c.fetch(ctx, c.baseURL+"/pharmacy?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var raw rawPharmacy
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &coreerrors.DataUnavailableError{Source: sourceName, Err: err}
	}

	pharmacy := raw.toDomain()
	return &pharmacy, nil
}

// fetch performs a GET and unwraps the directory envelope.
func (c *Client) fetch(ctx context.Context, requestURL string) (json.RawMessage, error) {
	resp, err := c.httpClient.Get(ctx, requestURL)
	if err != nil {
		return nil, &coreerrors.DataUnavailableError{Source: sourceName, Err: err}
	}
	defer resp.Body().Close()

	if resp.StatusCode() != 200 {
		return nil, &coreerrors.DataUnavailableError{
			Source: sourceName,
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode()),
		}
	}

	body, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, &coreerrors.DataUnavailableError{Source: sourceName, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &coreerrors.DataUnavailableError{Source: sourceName, Err: err}
	}

	if env.Status != "success" {
		if c.logger != nil {
			c.logger.Warn("Directory reported failure", map[string]interface{}{
				"message": env.Message,
			})
		}
		return nil, &coreerrors.DataUnavailableError{
			Source: sourceName,
			Err:    fmt.Errorf("directory status %q: %s", env.Status, env.Message),
		}
	}

	return env.Data, nil
}

func decodePharmacies(data json.RawMessage) ([]domain.Pharmacy, error) {
	var raw []rawPharmacy
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &coreerrors.DataUnavailableError{Source: sourceName, Err: err}
	}

	pharmacies := make([]domain.Pharmacy, 0, len(raw))
	for _, entry := range raw {
		pharmacies = append(pharmacies, entry.toDomain())
	}
	return pharmacies, nil
}

func (r rawPharmacy) toDomain() domain.Pharmacy {
	return domain.Pharmacy{
		ID:         r.PharmacyID,
		Name:       r.PharmacyName,
		Address:    r.Address,
		Phone:      domain.NormalizePhone(r.Phone),
		City:       r.City,
		District:   r.District,
		Directions: r.Directions,
		DutyStart:  r.PharmacyDutyStart,
		DutyEnd:    r.PharmacyDutyEnd,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
	}
}
