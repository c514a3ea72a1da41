// Package client is a small typed client for the peepeep JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/peepeep/peepeep-manager/internal/announce"
	"github.com/peepeep/peepeep-manager/internal/apisrv/provider"
	"github.com/peepeep/peepeep-manager/internal/apisrv/waitlist"
	"github.com/peepeep/peepeep-manager/internal/catalog"
	"github.com/peepeep/peepeep-manager/internal/dto"
)

// APIError is the error payload the server returns.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s: %s", e.Code, e.Message)
}

// Client talks to the peepeep API.
type Client struct {
	baseURL   string
	hc        *http.Client
	authToken string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

// SetAuthToken attaches a session token to subsequent requests.
func (c *Client) SetAuthToken(token string) {
	c.authToken = token
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *APIError       `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("can't encode request: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("can't decode response: %w", err)
	}
	if env.Error != nil {
		env.Error.Status = resp.StatusCode
		return env.Error
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("can't decode response data: %w", err)
		}
	}
	return nil
}

// WaitlistSignup joins the waitlist.
func (c *Client) WaitlistSignup(ctx context.Context, req *waitlist.SignupRequest) (*dto.WaitlistSignupResponse, error) {
	var out dto.WaitlistSignupResponse
	if err := c.do(ctx, http.MethodPost, "/api/waitlist/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitlistStatus fetches the status page payload for a referral code.
func (c *Client) WaitlistStatus(ctx context.Context, code string) (*dto.WaitlistStatusResponse, error) {
	var out dto.WaitlistStatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/waitlist/status?code="+url.QueryEscape(code), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrackReferral records a referral link visit.
func (c *Client) TrackReferral(ctx context.Context, code, email string) error {
	return c.do(ctx, http.MethodPost, "/api/waitlist/referral", map[string]string{
		"code":  code,
		"email": email,
	}, nil)
}

// SubmitContact sends a contact form submission.
func (c *Client) SubmitContact(ctx context.Context, req *waitlist.ContactRequest) error {
	return c.do(ctx, http.MethodPost, "/api/contact", req, nil)
}

// CatalogMakes lists vehicle makes, optionally filtered by query.
func (c *Client) CatalogMakes(ctx context.Context, query string) ([]catalog.Option, error) {
	var out []catalog.Option
	if err := c.do(ctx, http.MethodGet, "/api/catalog/makes?q="+url.QueryEscape(query), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CatalogModels lists models of a make, optionally filtered by query.
func (c *Client) CatalogModels(ctx context.Context, mk, query string) ([]catalog.Option, error) {
	var out []catalog.Option
	path := "/api/catalog/models?make=" + url.QueryEscape(mk) + "&q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CatalogYears lists the selectable vehicle years, newest first.
func (c *Client) CatalogYears(ctx context.Context) ([]int, error) {
	var out []int
	if err := c.do(ctx, http.MethodGet, "/api/catalog/years", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProviderCreate registers a provider signup.
func (c *Client) ProviderCreate(ctx context.Context, req *provider.CreateRequest) (*dto.ProviderProfile, error) {
	var out dto.ProviderProfile
	if err := c.do(ctx, http.MethodPost, "/api/providers/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProviderUpdate applies a wizard or profile patch.
func (c *Client) ProviderUpdate(ctx context.Context, email string, req *provider.UpdateRequest) (*dto.ProviderProfile, error) {
	var out dto.ProviderProfile
	if err := c.do(ctx, http.MethodPut, "/api/providers/"+url.PathEscape(email)+"/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProviderGet fetches the provider profile. Owner-only.
func (c *Client) ProviderGet(ctx context.Context, email string) (*dto.ProviderProfile, error) {
	var out dto.ProviderProfile
	if err := c.do(ctx, http.MethodGet, "/api/providers/"+url.PathEscape(email)+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail confirms a provider address with the mailed token. Uses the
// same GET form as the link in the mail.
func (c *Client) VerifyEmail(ctx context.Context, email, token string) error {
	path := "/api/providers/verify-email?email=" + url.QueryEscape(email) +
		"&token=" + url.QueryEscape(token)
	return c.do(ctx, http.MethodGet, path, nil, nil)
}

// UploadLicense uploads the business license document.
func (c *Client) UploadLicense(ctx context.Context, email, fileName, contentType string, r io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/providers/"+url.PathEscape(email)+"/license", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("can't decode response: %w", err)
	}
	if env.Error != nil {
		env.Error.Status = resp.StatusCode
		return env.Error
	}
	return nil
}

// Login authenticates with email and password and keeps the session token
// for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*provider.LoginResponse, error) {
	var out provider.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out); err != nil {
		return nil, err
	}
	c.authToken = out.AuthToken
	return &out, nil
}

// LoginWithGoogle authenticates with a Google ID token.
func (c *Client) LoginWithGoogle(ctx context.Context, idToken string) (*provider.LoginResponse, error) {
	var out provider.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/google", map[string]string{
		"idToken": idToken,
	}, &out); err != nil {
		return nil, err
	}
	c.authToken = out.AuthToken
	return &out, nil
}

// Announcement returns the active site-wide notice, or nil.
func (c *Client) Announcement(ctx context.Context) (*announce.Notice, error) {
	var out *announce.Notice
	if err := c.do(ctx, http.MethodGet, "/api/announcement/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
