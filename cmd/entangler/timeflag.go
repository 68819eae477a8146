package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/entangler"
)

// parseUnixTime accepts unix seconds or an RFC 3339 timestamp. Empty means 0,
// which the processor clamps to the current ledger time.
func parseUnixTime(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want unix seconds or RFC 3339", s)
	}
	return t.Unix(), nil
}

// parseOptionalTime is parseUnixTime with empty meaning "never".
func parseOptionalTime(s string) (entangler.Optional[int64], error) {
	if s == "" {
		return entangler.None[int64](), nil
	}
	v, err := parseUnixTime(s)
	if err != nil {
		return entangler.None[int64](), err
	}
	return entangler.Some(v), nil
}

func parseOptionalAddress(s string) (entangler.Optional[address.Address], error) {
	if s == "" {
		return entangler.None[address.Address](), nil
	}
	a, err := address.ParseAddress(s)
	if err != nil {
		return entangler.None[address.Address](), err
	}
	return entangler.Some(a), nil
}
