// Package client is a typed Go client for the Planoraa HTTP API.
//
//	c := client.New("http://localhost:8080")
//	if _, err := c.Login(ctx, api.LoginRequest{Email: "ana@example.com", Password: "secret1"}); err != nil { ... }
//	trips, err := c.ListTrips(ctx)
//
// Login and Register remember the returned access token; every later call
// sends it as a bearer token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/planoraa/planoraa-api/pkg/api"
)

const apiPrefix = "/api/v1"

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("planoraa: %d %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client calls the API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the initial access token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken replaces the access token sent with each request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current access token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// --- auth -------------------------------------------------------------------

// Register creates an account and remembers its access token.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (api.AuthData, error) {
	var out api.AuthData
	if err := c.call(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return api.AuthData{}, err
	}
	c.SetToken(out.AccessToken)
	return out, nil
}

// Login authenticates and remembers the access token.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (api.AuthData, error) {
	var out api.AuthData
	if err := c.call(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return api.AuthData{}, err
	}
	c.SetToken(out.AccessToken)
	return out, nil
}

// RefreshToken exchanges a refresh token for a new access token, which the
// client then uses.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	var out api.RefreshData
	if err := c.call(ctx, http.MethodPost, "/auth/refresh-token", api.RefreshRequest{RefreshToken: refreshToken}, &out); err != nil {
		return "", err
	}
	c.SetToken(out.AccessToken)
	return out.AccessToken, nil
}

func (c *Client) Profile(ctx context.Context) (api.User, error) {
	var out api.UserData
	err := c.call(ctx, http.MethodGet, "/auth/profile", nil, &out)
	return out.User, err
}

func (c *Client) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (api.User, error) {
	var out api.UserData
	err := c.call(ctx, http.MethodPut, "/auth/profile", req, &out)
	return out.User, err
}

// --- trips ------------------------------------------------------------------

func (c *Client) CreateTrip(ctx context.Context, req api.CreateTripRequest) (api.Trip, error) {
	var out api.TripData
	err := c.call(ctx, http.MethodPost, "/trips", req, &out)
	return out.Trip, err
}

func (c *Client) ListTrips(ctx context.Context) ([]api.Trip, error) {
	var out api.TripList
	err := c.call(ctx, http.MethodGet, "/trips", nil, &out)
	return out.Trips, err
}

func (c *Client) GetTrip(ctx context.Context, id uuid.UUID) (api.Trip, error) {
	var out api.TripData
	err := c.call(ctx, http.MethodGet, "/trips/"+id.String(), nil, &out)
	return out.Trip, err
}

func (c *Client) UpdateTrip(ctx context.Context, id uuid.UUID, req api.UpdateTripRequest) (api.Trip, error) {
	var out api.TripData
	err := c.call(ctx, http.MethodPut, "/trips/"+id.String(), req, &out)
	return out.Trip, err
}

func (c *Client) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/trips/"+id.String(), nil, nil)
}

func (c *Client) AddMember(ctx context.Context, tripID uuid.UUID, req api.AddMemberRequest) (api.Trip, error) {
	var out api.TripData
	err := c.call(ctx, http.MethodPost, "/trips/"+tripID.String()+"/members", req, &out)
	return out.Trip, err
}

// RespondToInvite accepts or declines the caller's pending invitation.
func (c *Client) RespondToInvite(ctx context.Context, tripID uuid.UUID, accept bool) (api.Trip, error) {
	var out api.TripData
	err := c.call(ctx, http.MethodPut, "/trips/"+tripID.String()+"/members/me", api.RespondInviteRequest{Accept: &accept}, &out)
	return out.Trip, err
}

// --- activities -------------------------------------------------------------

func (c *Client) CreateActivity(ctx context.Context, tripID uuid.UUID, req api.CreateActivityRequest) (api.Activity, error) {
	var out api.ActivityData
	err := c.call(ctx, http.MethodPost, "/trips/"+tripID.String()+"/activities", req, &out)
	return out.Activity, err
}

func (c *Client) ListActivities(ctx context.Context, tripID uuid.UUID) ([]api.Activity, error) {
	var out api.ActivityList
	err := c.call(ctx, http.MethodGet, "/trips/"+tripID.String()+"/activities", nil, &out)
	return out.Activities, err
}

func (c *Client) UpdateActivity(ctx context.Context, id uuid.UUID, req api.UpdateActivityRequest) (api.Activity, error) {
	var out api.ActivityData
	err := c.call(ctx, http.MethodPut, "/activities/"+id.String(), req, &out)
	return out.Activity, err
}

func (c *Client) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/activities/"+id.String(), nil, nil)
}

// --- expenses ---------------------------------------------------------------

func (c *Client) CreateExpense(ctx context.Context, tripID uuid.UUID, req api.CreateExpenseRequest) (api.Expense, error) {
	var out api.ExpenseData
	err := c.call(ctx, http.MethodPost, "/trips/"+tripID.String()+"/expenses", req, &out)
	return out.Expense, err
}

// ListExpenses returns the trip's expenses with their total and balances.
func (c *Client) ListExpenses(ctx context.Context, tripID uuid.UUID) (api.ExpenseList, error) {
	var out api.ExpenseList
	err := c.call(ctx, http.MethodGet, "/trips/"+tripID.String()+"/expenses", nil, &out)
	return out, err
}

func (c *Client) Balances(ctx context.Context, tripID uuid.UUID) (api.BalanceSheet, error) {
	var out api.BalanceSheet
	err := c.call(ctx, http.MethodGet, "/trips/"+tripID.String()+"/balances", nil, &out)
	return out, err
}

func (c *Client) ExportExpenses(ctx context.Context, tripID uuid.UUID) ([]api.ExportRow, error) {
	var out []api.ExportRow
	err := c.call(ctx, http.MethodGet, "/trips/"+tripID.String()+"/expenses/export", nil, &out)
	return out, err
}

// ExportExpensesCSV returns the raw CSV export, header line included.
func (c *Client) ExportExpensesCSV(ctx context.Context, tripID uuid.UUID) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, apiPrefix+"/trips/"+tripID.String()+"/expenses/export?format=csv", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeFailure(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client.ExportExpensesCSV: read body: %w", err)
	}
	return body, nil
}

func (c *Client) UpdateExpense(ctx context.Context, id uuid.UUID, req api.UpdateExpenseRequest) (api.Expense, error) {
	var out api.ExpenseData
	err := c.call(ctx, http.MethodPut, "/expenses/"+id.String(), req, &out)
	return out.Expense, err
}

func (c *Client) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/expenses/"+id.String(), nil, nil)
}

// --- polls ------------------------------------------------------------------

func (c *Client) CreatePoll(ctx context.Context, tripID uuid.UUID, req api.CreatePollRequest) (api.Poll, error) {
	var out api.PollData
	err := c.call(ctx, http.MethodPost, "/trips/"+tripID.String()+"/polls", req, &out)
	return out.Poll, err
}

func (c *Client) ListPolls(ctx context.Context, tripID uuid.UUID) ([]api.Poll, error) {
	var out api.PollList
	err := c.call(ctx, http.MethodGet, "/trips/"+tripID.String()+"/polls", nil, &out)
	return out.Polls, err
}

// Vote casts or replaces the caller's vote; voteType is "upvote" or "downvote".
func (c *Client) Vote(ctx context.Context, pollID uuid.UUID, voteType string) (api.Poll, error) {
	var out api.PollData
	err := c.call(ctx, http.MethodPost, "/polls/"+pollID.String()+"/vote", api.VoteRequest{VoteType: voteType}, &out)
	return out.Poll, err
}

func (c *Client) ClosePoll(ctx context.Context, pollID uuid.UUID) (api.Poll, error) {
	var out api.PollData
	err := c.call(ctx, http.MethodPut, "/polls/"+pollID.String()+"/close", nil, &out)
	return out.Poll, err
}

// --- transport --------------------------------------------------------------

// call sends a JSON request to path under /api/v1 and decodes the envelope's
// data into out when out is non-nil.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	resp, err := c.send(ctx, method, apiPrefix+path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeFailure(resp)
	}

	var env api.RawEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("client: decode %s %s data: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	return resp, nil
}

// decodeFailure turns an error response into an *APIError, falling back to
// the status text when the body is not an envelope.
func decodeFailure(resp *http.Response) error {
	var env api.RawEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || env.Message == "" {
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return &APIError{Status: resp.StatusCode, Message: env.Message}
}
