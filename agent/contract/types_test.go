package contract

import "testing"

func TestBookingReference(t *testing.T) {
	t.Parallel()

	cases := []struct {
		prefix string
		id     int64
		want   string
	}{
		{"BV", 1, "BV001"},
		{"BV", 42, "BV042"},
		{"BV", 1234, "BV1234"},
		{"XL", 7, "XL007"},
	}
	for _, tc := range cases {
		got := BookingReference(tc.prefix, tc.id)
		if got != tc.want {
			t.Fatalf("BookingReference(%q, %d) = %q, want %q", tc.prefix, tc.id, got, tc.want)
		}
	}
}
