package httpserver

import (
	"errors"
	"strconv"
)

var errBadParam = errors.New("must be a positive integer")

// positiveInt reads an optional positive integer. Empty means 0.
func positiveInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errBadParam
	}
	return n, nil
}

func idParam(raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, errBadParam
	}
	return uint(n), nil
}
