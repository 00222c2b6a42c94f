// Package whatsapp implements the messaging gateway over the Twilio
// WhatsApp message API.
package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mealplan_delivery_service/internal/domain/messaging"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const apiBase = "https://api.twilio.com/2010-04-01"

// Client sends WhatsApp messages through Twilio. It satisfies
// messaging.Gateway. Every request carries a bounded timeout; a timeout or
// API rejection is an ordinary dispatch failure, never fatal.
type Client struct {
	http       *resty.Client
	accountSID string
	fromNumber string
	log        *logrus.Logger
}

func NewClient(accountSID, authToken, fromNumber string, timeout time.Duration, log *logrus.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(fmt.Sprintf("%s/Accounts/%s", apiBase, accountSID)).
		SetBasicAuth(accountSID, authToken).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:       httpClient,
		accountSID: accountSID,
		fromNumber: fromNumber,
		log:        log,
	}
}

type messageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"message"`
}

// Send delivers text to address over WhatsApp and returns the provider's
// receipt. Only a 201 with a message SID counts as accepted.
func (c *Client) Send(ctx context.Context, address, text string) (*messaging.Receipt, error) {
	to := NormalizeNumber(address)
	from := NormalizeNumber(c.fromNumber)

	var out messageResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From": from,
			"To":   to,
			"Body": text,
		}).
		SetResult(&out).
		SetError(&out).
		Post("/Messages.json")
	if err != nil {
		return nil, fmt.Errorf("twilio request failed: %w", err)
	}

	if resp.StatusCode() != 201 || out.SID == "" {
		c.log.WithFields(logrus.Fields{
			"status_code": resp.StatusCode(),
			"to":          to,
		}).Warnf("Twilio rejected message: %s", out.ErrorMessage)
		return nil, fmt.Errorf("twilio rejected message (HTTP %d): %s", resp.StatusCode(), out.ErrorMessage)
	}

	c.log.WithFields(logrus.Fields{"to": to, "sid": out.SID}).Debug("WhatsApp message accepted")
	return &messaging.Receipt{MessageID: out.SID, Status: out.Status}, nil
}

// NormalizeNumber converts a phone number to Twilio WhatsApp addressing:
// 'whatsapp:+<E.164>'. Accepts '+<digits>', 'whatsapp:+<digits>' or bare
// digits.
func NormalizeNumber(number string) string {
	number = strings.TrimSpace(number)
	if number == "" {
		return number
	}
	if strings.HasPrefix(strings.ToLower(number), "whatsapp:") {
		suffix := number[strings.Index(number, ":")+1:]
		if !strings.HasPrefix(suffix, "+") {
			suffix = "+" + suffix
		}
		return "whatsapp:" + suffix
	}
	if !strings.HasPrefix(number, "+") {
		number = "+" + number
	}
	return "whatsapp:" + number
}
