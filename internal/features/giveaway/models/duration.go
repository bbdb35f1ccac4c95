package models

import (
	"errors"
	"strconv"
	"time"
)

var ErrInvalidDuration = errors.New("invalid duration format")

// ParseDuration converts a compact duration token like "10m" into a
// time.Duration. The token is a positive integer followed by one of the
// units s, m, h or d. Anything else fails with ErrInvalidDuration; an
// unrecognized unit is a hard error, never a fallback.
func ParseDuration(token string) (time.Duration, error) {
	if len(token) < 2 {
		return 0, ErrInvalidDuration
	}

	num := token[:len(token)-1]
	for _, r := range num {
		if r < '0' || r > '9' {
			return 0, ErrInvalidDuration
		}
	}

	amount, err := strconv.Atoi(num)
	if err != nil || amount <= 0 {
		return 0, ErrInvalidDuration
	}

	switch token[len(token)-1] {
	case 's':
		return time.Duration(amount) * time.Second, nil
	case 'm':
		return time.Duration(amount) * time.Minute, nil
	case 'h':
		return time.Duration(amount) * time.Hour, nil
	case 'd':
		return time.Duration(amount) * 24 * time.Hour, nil
	}
	return 0, ErrInvalidDuration
}
