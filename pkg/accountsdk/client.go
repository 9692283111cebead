package accountsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"
)

// Client is a small HTTP client for the account API. It keeps the HttpOnly
// token cookies in an in-memory jar, mirroring how a browser talks to the
// service. Used by the end-to-end tests and handy for tooling.
type Client struct {
	baseURL string
	http    *http.Client
	bearer  string
}

// NewClient creates a Client against baseURL (e.g. "http://localhost:4000").
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
			// OAuth callbacks redirect to the frontend; the client should
			// observe the redirect rather than follow it off-service.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with email/password. On success the access and
// refresh cookies are stored in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rotates the token cookies using the stored refresh cookie.
func (c *Client) Refresh(ctx context.Context) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/refresh", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the refresh token and clears the cookie jar's tokens.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/forgot-password", ForgotPasswordRequest{Email: email}, nil)
}

// ResetPassword redeems a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/reset-password", ResetPasswordRequest{Token: token, Password: password}, nil)
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*UserResponse, error) {
	var out UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile patches the authenticated user's profile.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserResponse, error) {
	var out UserResponse
	if err := c.doJSON(ctx, http.MethodPatch, "/api/users/profile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProfile deletes the authenticated user's account.
func (c *Client) DeleteProfile(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/users/profile", nil, nil)
}

// ListUsers fetches a page of the admin user listing.
func (c *Client) ListUsers(ctx context.Context, page, limit int) (*UserListResponse, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out UserListResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetBearerToken forces subsequent requests to carry an Authorization header
// instead of relying on cookies. Pass "" to clear.
func (c *Client) SetBearerToken(token string) {
	c.bearer = token
}

// ClearCookies drops all stored cookies, simulating a fresh browser.
func (c *Client) ClearCookies() {
	jar, _ := cookiejar.New(nil)
	c.http.Jar = jar
}

// AccessTokenCookie returns the current accessToken cookie value, or "".
func (c *Client) AccessTokenCookie() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.http.Jar.Cookies(u) {
		if cookie.Name == "accessToken" {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Code = ErrorCodeServerError
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
