// Package authy implements verify.Provider against an Authy-compatible
// account-security HTTP API.
package authy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"authgate/internal/verify"
)

const defaultTimeout = 15 * time.Second

// Client calls the provider's phone-verification and step-up-token endpoints.
// The API key is sent in the X-Authy-API-Key header on every request.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client for the given API key and optional base URL.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.authy.com"
	}
	return &Client{
		APIKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    struct {
		ID int64 `json:"id"`
	} `json:"user"`
	Errors struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// StartCheck dispatches a 4-digit verification code via SMS to the number.
func (c *Client) StartCheck(ctx context.Context, nationalNumber string, countryCode int) error {
	form := url.Values{}
	form.Set("via", "sms")
	form.Set("phone_number", nationalNumber)
	form.Set("country_code", strconv.Itoa(countryCode))
	_, err := c.do(ctx, http.MethodPost, "/protected/json/phones/verification/start", form, nil)
	return err
}

// VerifyCheck checks the submitted verification code for the number.
func (c *Client) VerifyCheck(ctx context.Context, nationalNumber string, countryCode int, code string) error {
	q := url.Values{}
	q.Set("phone_number", nationalNumber)
	q.Set("country_code", strconv.Itoa(countryCode))
	q.Set("verification_code", code)
	_, err := c.do(ctx, http.MethodGet, "/protected/json/phones/verification/check", nil, q)
	return err
}

// RegisterPrincipal creates the user at the provider and returns the
// provider-assigned second-factor ID.
func (c *Client) RegisterPrincipal(ctx context.Context, email, nationalNumber string, countryCode int, enabled bool) (string, error) {
	form := url.Values{}
	form.Set("user[email]", email)
	form.Set("user[cellphone]", nationalNumber)
	form.Set("user[country_code]", strconv.Itoa(countryCode))
	form.Set("send_install_link_via_sms", strconv.FormatBool(enabled))
	resp, err := c.do(ctx, http.MethodPost, "/protected/json/users/new", form, nil)
	if err != nil {
		return "", err
	}
	if resp.User.ID == 0 {
		return "", &verify.ProviderError{Op: "register", Reason: "missing user id in response"}
	}
	return strconv.FormatInt(resp.User.ID, 10), nil
}

// RequestStepUp asks the provider to deliver a 7-digit step-up code via SMS.
func (c *Client) RequestStepUp(ctx context.Context, secondFactorID string, force bool) error {
	q := url.Values{}
	q.Set("force", strconv.FormatBool(force))
	_, err := c.do(ctx, http.MethodGet, "/protected/json/sms/"+url.PathEscape(secondFactorID), nil, q)
	return err
}

// VerifyStepUp checks the submitted step-up code for the second-factor ID.
func (c *Client) VerifyStepUp(ctx context.Context, secondFactorID, code string) error {
	p := "/protected/json/verify/" + url.PathEscape(code) + "/" + url.PathEscape(secondFactorID)
	_, err := c.do(ctx, http.MethodGet, p, nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, query url.Values) (*apiResponse, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("authy: API key not configured")
	}
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Authy-API-Key", c.APIKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authy: %s: %w", path, err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr == nil && len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	if resp.StatusCode != http.StatusOK {
		reason := parsed.Errors.Message
		if reason == "" {
			reason = parsed.Message
		}
		if reason == "" {
			reason = fmt.Sprintf("status=%d", resp.StatusCode)
		}
		return nil, &verify.ProviderError{Op: opFromPath(path), Reason: reason}
	}
	return &parsed, nil
}

func opFromPath(path string) string {
	switch {
	case strings.Contains(path, "/verification/start"):
		return "start"
	case strings.Contains(path, "/verification/check"):
		return "check"
	case strings.Contains(path, "/users/new"):
		return "register"
	case strings.Contains(path, "/sms/"):
		return "request step-up"
	case strings.Contains(path, "/verify/"):
		return "verify step-up"
	default:
		return "call"
	}
}
