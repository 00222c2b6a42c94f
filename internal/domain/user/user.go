package user

import (
	"database/sql"
	"strings"
	"time"
)

// Profile represents a user's delivery schedule settings as read by the
// dispatch pipeline. The pipeline never mutates profiles; schedule fields
// are changed only through the settings endpoint.
type Profile struct {
	ID                int64
	Email             string // normalized (lowercase) email, the stable user key
	Name              string
	Phone             string // WhatsApp destination, E.164 with optional channel prefix
	Timezone          string // IANA zone name; resolved with UTC fallback
	DeliveryEnabled   bool
	DeliveryTime      string       // local wall-clock HH:MM (24h)
	DeliveryStartDate sql.NullTime // no daily sends before this local date
	WhatsAppVerified  bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NormalizeEmail canonicalizes an email for use as the user key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
