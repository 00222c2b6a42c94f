package whatsapp

import (
	"testing"
)

func TestNormalizeNumber(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"+15551234567", "whatsapp:+15551234567"},
		{"15551234567", "whatsapp:+15551234567"},
		{"whatsapp:+15551234567", "whatsapp:+15551234567"},
		{"whatsapp:15551234567", "whatsapp:+15551234567"},
		{"  +919812345678 ", "whatsapp:+919812345678"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeNumber(tt.in); got != tt.want {
			t.Errorf("NormalizeNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
