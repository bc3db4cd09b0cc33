// Package client is a Go client for the favtrack HTTP API. It bundles a
// session guard that tracks the bearer token and a paginated list loader
// mirroring the way the web UI consumes the favorites endpoint.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNoSession is returned by authenticated calls when no token is
	// held. No network request is made in that case.
	ErrNoSession = errors.New("not logged in")
	// ErrUnauthorized is returned when the server rejects the token or
	// credentials. The session is cleared before it is returned.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned for records that do not exist or are owned
	// by someone else.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when signing up with a taken email.
	ErrConflict = errors.New("conflict")
)

// ValidationError carries the per-field detail of a 400 response.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+" "+msg)
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// User is the public identity returned by the auth endpoints.
type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Favorite mirrors the server's favorite record.
type Favorite struct {
	ID              uint      `json:"id"`
	UserID          uint      `json:"userId"`
	Title           string    `json:"title"`
	Type            string    `json:"type"`
	Director        *string   `json:"director"`
	Budget          *float64  `json:"budget"`
	Location        *string   `json:"location"`
	DurationMinutes *uint     `json:"durationMinutes"`
	Year            *int      `json:"year"`
	Description     *string   `json:"description"`
	Rating          *float64  `json:"rating"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FavoriteInput carries fields for create and partial update. Nil fields
// are omitted from the request body.
type FavoriteInput struct {
	Title           *string  `json:"title,omitempty"`
	Type            *string  `json:"type,omitempty"`
	Director        *string  `json:"director,omitempty"`
	Budget          *float64 `json:"budget,omitempty"`
	Location        *string  `json:"location,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	Year            *int     `json:"year,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
}

// ListPage is one page of favorites. A nil NextOffset means the last page.
type ListPage struct {
	Items      []Favorite `json:"items"`
	Total      int64      `json:"total"`
	NextOffset *int       `json:"nextOffset"`
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type itemEnvelope struct {
	Item Favorite `json:"item"`
}

type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Client talks to a favtrack server.
type Client struct {
	http    *resty.Client
	session *Session
}

// New creates a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15 * time.Second)
	return &Client{http: cli, session: &Session{}}
}

// Session exposes the session guard, e.g. to restore a persisted token.
func (c *Client) Session() *Session {
	return c.session
}

// Signup registers a new account and adopts the returned token.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*User, error) {
	var out authResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"name": name, "email": email, "password": password}).
		SetResult(&out).
		Post("/api/auth/signup")
	if err != nil {
		return nil, fmt.Errorf("signup request: %w", err)
	}
	if err := c.mapError(resp); err != nil {
		return nil, err
	}
	c.session.adopt(out.Token, &out.User)
	return &out.User, nil
}

// Login authenticates and adopts the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out authResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/api/auth/login")
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	if err := c.mapError(resp); err != nil {
		return nil, err
	}
	c.session.adopt(out.Token, &out.User)
	return &out.User, nil
}

// Logout drops the session locally. Tokens are stateless server-side, so
// there is nothing to revoke.
func (c *Client) Logout() {
	c.session.Clear()
}

// Verify checks the held token against the server and adopts the returned
// identity. With no token held it fails immediately without a network call.
func (c *Client) Verify(ctx context.Context) (*User, error) {
	req, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	var out struct {
		User User `json:"user"`
	}
	resp, err := req.SetResult(&out).Get("/api/auth/verify")
	if err != nil {
		return nil, fmt.Errorf("verify request: %w", err)
	}
	if err := c.mapError(resp); err != nil {
		return nil, err
	}
	c.session.adopt("", &out.User)
	return &out.User, nil
}

// ListFavorites fetches one page. Pass limit or offset <= 0 to take the
// server defaults.
func (c *Client) ListFavorites(ctx context.Context, limit, offset int) (*ListPage, error) {
	req, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		req.SetQueryParam("offset", strconv.Itoa(offset))
	}
	var out ListPage
	resp, err := req.SetResult(&out).Get("/api/favorites")
	if err != nil {
		return nil, fmt.Errorf("list request: %w", err)
	}
	if err := c.mapError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateFavorite adds a new favorite.
func (c *Client) CreateFavorite(ctx context.Context, in FavoriteInput) (*Favorite, error) {
	req, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	var out itemEnvelope
	resp, err := req.SetBody(in).SetResult(&out).Post("/api/favorites")
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if err := c.mapError(resp); err != nil {
		return nil, err
	}
	return &out.Item, nil
}

// GetFavorite fetches a single owned favorite.
func (c *Client) GetFavorite(ctx context.Context, id uint) (*Favorite, error) {
	req, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	var out itemEnvelope
	resp, err := req.SetResult(&out).Get("/api/favorites/" + strconv.FormatUint(uint64(id), 10))
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if err := c.mapError(resp); err != nil {
		return nil, err
	}
	return &out.Item, nil
}

// UpdateFavorite applies a partial update.
func (c *Client) UpdateFavorite(ctx context.Context, id uint, in FavoriteInput) (*Favorite, error) {
	req, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}
	var out itemEnvelope
	resp, err := req.SetBody(in).SetResult(&out).Put("/api/favorites/" + strconv.FormatUint(uint64(id), 10))
	if err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	if err := c.mapError(resp); err != nil {
		return nil, err
	}
	return &out.Item, nil
}

// DeleteFavorite removes a favorite. A second delete of the same id
// returns ErrNotFound.
func (c *Client) DeleteFavorite(ctx context.Context, id uint) error {
	req, err := c.authed(ctx)
	if err != nil {
		return err
	}
	resp, err := req.Delete("/api/favorites/" + strconv.FormatUint(uint64(id), 10))
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	return c.mapError(resp)
}

// authed builds a request carrying the bearer token, or fails with
// ErrNoSession before touching the network.
func (c *Client) authed(ctx context.Context) (*resty.Request, error) {
	token := c.session.Token()
	if token == "" {
		return nil, ErrNoSession
	}
	return c.http.R().SetContext(ctx).SetAuthToken(token), nil
}

// mapError converts non-2xx responses to typed errors. Any 401 clears the
// session, forcing the caller back through login.
func (c *Client) mapError(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	var body errorBody
	_ = json.Unmarshal(resp.Body(), &body)
	if body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode())
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		c.session.Clear()
		return fmt.Errorf("%w: %s", ErrUnauthorized, body.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body.Message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, body.Message)
	case http.StatusBadRequest:
		return &ValidationError{Message: body.Message, Fields: body.Errors}
	default:
		return fmt.Errorf("server error (%d): %s", resp.StatusCode(), body.Message)
	}
}
