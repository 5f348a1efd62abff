package normalize

import "testing"

func ptr(s string) *string { return &s }

func TestPrice(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want float64
	}{
		{"absent", nil, 0},
		{"empty", ptr(""), 0},
		{"dollars", ptr("$9.99"), 9.99},
		{"thousands separator", ptr("$1,299.00"), 1299},
		{"trailing text", ptr("49.50 used"), 49.5},
		{"garbage", ptr("call for price"), 0},
		{"two dots", ptr("1.2.3"), 1.2},
		{"rupees prefix", ptr("Rs.1,299.00"), 0.1299},
		{"only dots", ptr("..."), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Price(tt.raw); got != tt.want {
				t.Errorf("Price(%v) = %f, want %f", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want float64
	}{
		{"absent", nil, DefaultRating},
		{"blank", ptr("  "), DefaultRating},
		{"valid", ptr("4.5"), 4.5},
		{"zero", ptr("0"), 0},
		{"max", ptr("5"), 5},
		{"above scale", ptr("9.1"), DefaultRating},
		{"not a number", ptr("great"), DefaultRating},
		{"NaN", ptr("NaN"), DefaultRating},
		{"trailing scale", ptr("4.5 out of 5"), 4.5},
		{"trailing text above scale", ptr("7 stars"), DefaultRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rating(tt.raw); got != tt.want {
				t.Errorf("Rating(%v) = %f, want %f", tt.raw, got, tt.want)
			}
		})
	}
}
