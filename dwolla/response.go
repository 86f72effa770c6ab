package dwolla

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Response is the result of every API call.
// Payload is non-nil only when Success is true and the payload decoded.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Payload *T     `json:"payload,omitempty"`
}

var (
	ErrInvalidAccessToken  = errors.New("dwolla: " + MessageInvalidAccessToken)
	ErrInsufficientBalance = errors.New("dwolla: " + MessageInsufficientBalance)
	ErrInvalidAccountPIN   = errors.New("dwolla: " + MessageInvalidAccountPIN)
)

var knownMessages = map[string]error{
	MessageInvalidAccessToken:  ErrInvalidAccessToken,
	MessageInsufficientBalance: ErrInsufficientBalance,
	MessageInvalidAccountPIN:   ErrInvalidAccountPIN,
}

// APIError carries a failure message that has no sentinel.
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return "dwolla: " + e.Message }

// Err converts a failed response into an error for callers that prefer one.
// It returns nil when r succeeded.
func (r Response[T]) Err() error {
	if r.Success {
		return nil
	}
	if err, ok := knownMessages[r.Message]; ok {
		return err
	}
	return &APIError{Message: r.Message}
}

func failure[T any](msg string) Response[T] {
	return Response[T]{Success: false, Message: msg}
}

// Transform decodes the envelope's Response field into a payload.
type Transform[T any] func(raw any) (T, error)

// AmountTransform accepts a JSON number and returns it as an exact decimal.
func AmountTransform(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("expected a number, got %T", raw)
	}
}

// EntityTransform accepts an object with Id and Name strings.
func EntityTransform(raw any) (Entity, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Entity{}, fmt.Errorf("expected an object, got %T", raw)
	}
	id, ok1 := m["Id"].(string)
	name, ok2 := m["Name"].(string)
	if !ok1 || !ok2 {
		return Entity{}, errors.New("entity needs string Id and Name")
	}
	return Entity{ID: id, Name: name}, nil
}
