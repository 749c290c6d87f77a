package conversation

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when an action arrives while another one is in flight.
	ErrBusy = errors.New("conversation is busy")
	// ErrSuperseded marks a ticket that a newer invocation replaced.
	ErrSuperseded = errors.New("action superseded")
	// ErrUnknownOption is returned for a message id or option index that does not exist.
	ErrUnknownOption = errors.New("unknown option")
	// ErrOptionDisabled is returned when the chosen option is not currently clickable.
	ErrOptionDisabled = errors.New("option is not active")
	// ErrClosed is returned by a controller after Close.
	ErrClosed = errors.New("conversation closed")
)

// User-facing recovery texts for each error kind.
const (
	DataLoadText        = "An error occurred while loading stock data."
	SelectionText       = "Something went wrong. Please select a different exchange."
	DataUnavailableText = "Unable to fetch stock price. Please try again later."
)

// DataLoadError means the dataset was missing or malformed at startup.
type DataLoadError struct {
	Err error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("failed to load stock data: %v", e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// SelectionError means an exchange code did not resolve.
type SelectionError struct {
	ExchangeCode string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid stock exchange selection: %q", e.ExchangeCode)
}

// DataUnavailableError means a stock is unknown or has no usable price.
type DataUnavailableError struct {
	ExchangeCode string
	StockCode    string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("stock information is unavailable: %s/%s", e.ExchangeCode, e.StockCode)
}
