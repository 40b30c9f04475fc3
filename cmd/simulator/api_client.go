package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client. Redirects are not followed so
// form posts can be checked for the 303 the server answers with.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Response types matching backend

type Status struct {
	Health     int        `json:"health"`
	TotalKicks int        `json:"total_kicks"`
	LastKicked *time.Time `json:"last_kicked"`
}

type KickType struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Damage int    `json:"damage"`
}

type KickTypesResponse struct {
	KickTypes []KickType `json:"kick_types"`
}

func (c *APIClient) Status() (*Status, error) {
	var status Status
	if err := c.getJSON("/api/v1/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *APIClient) KickTypes() ([]KickType, error) {
	var resp KickTypesResponse
	if err := c.getJSON("/api/v1/kick-types", &resp); err != nil {
		return nil, err
	}
	return resp.KickTypes, nil
}

func (c *APIClient) Kick(kickerName string, kickTypeID uint) error {
	form := url.Values{"kicker_name": {kickerName}}
	if kickTypeID != 0 {
		form.Set("kick_type_id", strconv.FormatUint(uint64(kickTypeID), 10))
	}
	return c.postForm("/kick", form)
}

func (c *APIClient) Heal(amount int) error {
	return c.postForm("/heal", url.Values{"heal_amount": {strconv.Itoa(amount)}})
}

func (c *APIClient) Reset() error {
	return c.postForm("/reset", url.Values{})
}

func (c *APIClient) getJSON(path string, v interface{}) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *APIClient) postForm(path string, form url.Values) error {
	resp, err := c.httpClient.PostForm(c.baseURL+path, form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
