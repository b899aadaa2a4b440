package comms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioEndpoint = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

// TwilioProvider sends text messages through the Twilio REST API
type TwilioProvider struct {
	httpClient *http.Client
}

// NewTwilioProvider creates a new Twilio provider
func NewTwilioProvider() *TwilioProvider {
	return &TwilioProvider{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send delivers a text message via Twilio
func (p *TwilioProvider) Send(ctx context.Context, accountSID, authToken string, msg SMS) error {
	form := url.Values{}
	form.Set("From", msg.From)
	form.Set("To", msg.To)
	form.Set("Body", msg.Body)

	endpoint := fmt.Sprintf(twilioEndpoint, accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create sms request: %w", err)
	}
	req.SetBasicAuth(accountSID, authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms provider returned %d: %s", resp.StatusCode, body)
	}

	return nil
}
