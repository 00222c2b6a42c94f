package messaging

import (
	"context"
	"fmt"
	"regexp"
)

// Receipt is the gateway's acknowledgement of an accepted message.
type Receipt struct {
	MessageID string
	Status    string
}

// Gateway defines an interface for delivering a text message to a contact
// address. This decouples the dispatch logic from the concrete messaging
// provider.
type Gateway interface {
	Send(ctx context.Context, address, text string) (*Receipt, error)
}

// addressPattern requires an explicit country code (E.164), optionally
// carrying the WhatsApp channel prefix.
var addressPattern = regexp.MustCompile(`^(whatsapp:)?\+\d{7,15}$`)

// ValidateAddress checks that addr is a deliverable contact address. The
// dispatch pipeline calls this before any gateway send.
func ValidateAddress(addr string) error {
	if !addressPattern.MatchString(addr) {
		return fmt.Errorf("contact address %q must include a country code, e.g. '+91XXXXXXXXXX' or 'whatsapp:+91XXXXXXXXXX'", addr)
	}
	return nil
}
