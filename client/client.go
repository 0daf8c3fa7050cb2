package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/Cole-Dreyer/Restaurant-Reservation/services"
)

const DefaultBaseURL = "http://localhost:5000"

// APIError is an {error} response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client talks to the reservation API. Calls are never retried.
type Client struct {
	baseURL string
	http    *http.Client
	Token   string
}

// New builds a client for baseURL. A nil httpClient means
// http.DefaultClient; calls end when their context does.
func New(baseURL string, httpClient *http.Client) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: trimmed, http: httpClient}
}

// FromEnv reads API_BASE_URL and API_TOKEN.
func FromEnv() *Client {
	c := New(os.Getenv("API_BASE_URL"), nil)
	c.Token = os.Getenv("API_TOKEN")
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ReservationInput is the body sent on create and edit.
type ReservationInput struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	MobileNumber    string `json:"mobile_number"`
	ReservationDate string `json:"reservation_date"`
	ReservationTime string `json:"reservation_time"`
	People          int    `json:"people"`
}

type TableInput struct {
	TableName string `json:"table_name"`
	Capacity  int    `json:"capacity"`
}

func (c *Client) ListReservations(ctx context.Context, date string) ([]models.Reservation, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	var out []models.Reservation
	err := c.do(ctx, http.MethodGet, "/reservations", q, nil, &out)
	return out, err
}

func (c *Client) Search(ctx context.Context, mobile string) ([]models.Reservation, error) {
	q := url.Values{"mobile_number": {mobile}}
	var out []models.Reservation
	err := c.do(ctx, http.MethodGet, "/reservations", q, nil, &out)
	return out, err
}

func (c *Client) CreateReservation(ctx context.Context, in ReservationInput) (*models.Reservation, error) {
	var out models.Reservation
	if err := c.do(ctx, http.MethodPost, "/reservations", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReadReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var out models.Reservation
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reservations/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EditReservation(ctx context.Context, id uint, in ReservationInput) (*models.Reservation, error) {
	var out models.Reservation
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/reservations/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus) (*models.Reservation, error) {
	var out models.Reservation
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/reservations/%d/status", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelReservation is UpdateStatus with cancelled.
func (c *Client) CancelReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return c.UpdateStatus(ctx, id, models.StatusCancelled)
}

func (c *Client) ListTables(ctx context.Context) ([]models.Table, error) {
	var out []models.Table
	err := c.do(ctx, http.MethodGet, "/tables", nil, nil, &out)
	return out, err
}

func (c *Client) CreateTable(ctx context.Context, in TableInput) (*models.Table, error) {
	var out models.Table
	if err := c.do(ctx, http.MethodPost, "/tables", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Seat(ctx context.Context, tableID, reservationID uint) (*models.Table, error) {
	var out models.Table
	body := map[string]uint{"reservation_id": reservationID}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tables/%d/seat", tableID), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Finish(ctx context.Context, tableID uint) (*models.Table, error) {
	var out models.Table
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/tables/%d/seat", tableID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context, date string) (*services.DashboardStats, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	var out services.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// do sends {data: body} and decodes the data field of the reply into out.
// A 204 leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(map[string]any{"data": body})
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if env.Error != "" || resp.StatusCode >= http.StatusBadRequest {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
