package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("unavailable")

	ErrOrderNotEligible = fmt.Errorf("%w: order not found or not eligible", ErrNotFound)
	ErrNotPurchased     = fmt.Errorf("%w: item was not purchased in this order", ErrForbidden)
)
