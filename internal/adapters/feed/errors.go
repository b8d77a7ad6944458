package feed

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrDecodePayload = errors.New("decode payload failed")
	ErrReadCSV       = errors.New("read csv failed")
)
