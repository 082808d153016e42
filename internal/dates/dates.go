// Package dates parses free-form date strings against a fixed, ordered list of
// accepted layouts.
package dates

import (
	"errors"
	"strings"
	"time"
)

// ErrUnparseable is returned when a value matches none of the accepted layouts.
var ErrUnparseable = errors.New("date matches no accepted format")

// paymentDateLayouts is the ordered list of accepted payment-date layouts.
// The first layout that matches wins.
var paymentDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"1/2/2006",
	"01/2/2006",
	"2/1/2006",
	"02/1/2006",
	"2006/01/02",
	"02.01.2006",
	"1.2.2006",
	"2006.01.02",
	"20060102",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParsePaymentDate parses s against the accepted layouts in order and returns
// the first match. A blank value yields (nil, nil), meaning no payment date.
func ParsePaymentDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	for _, layout := range paymentDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, ErrUnparseable
}
