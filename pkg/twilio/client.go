// Package twilio is a thin REST wrapper over the telephony provider's
// Messages and Calls endpoints, plus webhook signature validation and TwiML
// document building. It is stateless: no retries, no backoff, no queueing.
package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
)

const defaultBaseURL = "https://api.twilio.com/2010-04-01"

// ErrNotConfigured is returned when credentials are missing
var ErrNotConfigured = errors.New("twilio credentials not configured")

// Client calls the telephony REST API
type Client struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string
	HTTPClient *http.Client
}

// NewFromEnv builds a client from TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and
// TWILIO_PHONE_NUMBER. Configuration is checked per call, not at startup, so
// the app still boots in environments without telephony.
func NewFromEnv() *Client {
	return &Client{
		AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		FromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
		BaseURL:    defaultBaseURL,
		HTTPClient: http.DefaultClient,
	}
}

func (c *Client) configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

// Result holds the provider identifier and initial state of a send/call
type Result struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// SendSMS sends one outbound SMS and returns the provider SID
func (c *Client) SendSMS(ctx context.Context, to, body string) (*Result, error) {
	if !c.configured() {
		return nil, ErrNotConfigured
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.FromNumber)
	form.Set("Body", body)

	return c.post(ctx, fmt.Sprintf("%s/Accounts/%s/Messages.json", c.BaseURL, c.AccountSID), form)
}

// CallParams configures an outbound call
type CallParams struct {
	To             string
	VoiceURL       string // TwiML URL controlling the call
	StatusCallback string
	Record         bool
}

// MakeCall places one outbound call controlled by the given TwiML URL
func (c *Client) MakeCall(ctx context.Context, params CallParams) (*Result, error) {
	if !c.configured() {
		return nil, ErrNotConfigured
	}

	form := url.Values{}
	form.Set("To", params.To)
	form.Set("From", c.FromNumber)
	form.Set("Url", params.VoiceURL)
	if params.StatusCallback != "" {
		form.Set("StatusCallback", params.StatusCallback)
		for _, ev := range []string{"initiated", "ringing", "answered", "completed"} {
			form.Add("StatusCallbackEvent", ev)
		}
	}
	if params.Record {
		form.Set("Record", "true")
	}

	return c.post(ctx, fmt.Sprintf("%s/Accounts/%s/Calls.json", c.BaseURL, c.AccountSID), form)
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("twilio api error %d: %s", resp.StatusCode, apiErr.Message)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("twilio response decode failed: %w", err)
	}
	return &result, nil
}
