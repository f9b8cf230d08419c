package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"ten digit US", "2125550123", "+12125550123", false},
		{"formatted US", "(212) 555-0123", "+12125550123", false},
		{"already E164", "+12125550123", "+12125550123", false},
		{"with country code", "1-212-555-0123", "+12125550123", false},
		{"too short", "12345", "", true},
		{"garbage", "not a phone", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizePhone(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatPhoneNationalFallback(t *testing.T) {
	if got := FormatPhoneNational("garbage"); got != "garbage" {
		t.Errorf("expected unparseable input returned as-is, got %q", got)
	}
	if got := FormatPhoneNational("+12125550123"); got != "(212) 555-0123" {
		t.Errorf("unexpected national format: %q", got)
	}
}
