// Package twilio places outbound voice calls and renders the TwiML the voice
// gateway fetches back from us.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const apiBase = "https://api.twilio.com/2010-04-01"

// Client is a thin REST client for the Calls endpoint. With no account SID
// configured it runs in simulated mode and fabricates call SIDs, so the rest
// of the pipeline can be exercised without a Twilio account.
type Client struct {
	accountSID string
	authToken  string
	from       string
	voiceURL   string
	http       *http.Client
}

func NewClient(accountSID, authToken, from, voiceURL string) *Client {
	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		voiceURL:   voiceURL,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

// Simulated reports whether calls are fabricated instead of placed
func (c *Client) Simulated() bool {
	return c.accountSID == "" || c.authToken == ""
}

type callResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// PlaceCall dials the destination number and points the voice gateway at our
// TwiML webhook with the script to speak. Returns the provider's call SID.
func (c *Client) PlaceCall(ctx context.Context, to, script string) (string, error) {
	if c.Simulated() {
		return "SIM" + strings.ReplaceAll(uuid.NewString(), "-", ""), nil
	}

	sayURL := c.voiceURL + "?text=" + url.QueryEscape(script)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.from)
	form.Set("Url", sayURL)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", apiBase, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("twilio: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("twilio: reading response: %w", err)
	}

	var parsed callResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("twilio: decoding response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if parsed.Message != "" {
			return "", fmt.Errorf("twilio: %s", parsed.Message)
		}
		return "", fmt.Errorf("twilio: unexpected status %d", resp.StatusCode)
	}

	return parsed.SID, nil
}
