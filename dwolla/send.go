package dwolla

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Entity references a Dwolla user or contact.
type Entity struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// Fee is an extra fee routed to a facilitator account.
type Fee struct {
	DestinationID string
	Amount        decimal.Decimal
}

// SendRequest is the body of POST /transactions/send.
// DestinationID, PIN and Amount are required; nil optional fields are not sent.
type SendRequest struct {
	DestinationID string
	PIN           string
	Amount        decimal.Decimal

	DestinationType      *DestinationType
	FundsSource          *string
	Notes                *string
	AssumeCosts          *bool
	AdditionalFees       []Fee
	Metadata             map[string]string
	AssumeAdditionalFees *bool
	FacilitatorAmount    *decimal.Decimal
}

var (
	errMissingDestination = errors.New("destination id is required")
	errMissingPIN         = errors.New("pin is required")
	errMissingAmount      = errors.New("amount is required")
)

// Validate checks the required fields.
func (r SendRequest) Validate() error {
	if strings.TrimSpace(r.DestinationID) == "" {
		return errMissingDestination
	}
	if strings.TrimSpace(r.PIN) == "" {
		return errMissingPIN
	}
	// Sign and range checks belong to the service.
	if r.Amount.IsZero() {
		return errMissingAmount
	}
	for _, f := range r.AdditionalFees {
		if strings.TrimSpace(f.DestinationID) == "" || f.Amount.IsZero() {
			return errors.New("additional fee needs a destination id and an amount")
		}
	}
	return nil
}

// ToJSON returns the request body. Amounts are encoded as JSON numbers with
// their exact decimal text.
func (r SendRequest) ToJSON() map[string]any {
	body := map[string]any{
		KeyDestinationID: r.DestinationID,
		KeyPIN:           r.PIN,
		KeyAmount:        number(r.Amount),
	}
	if r.DestinationType != nil {
		body[KeyDestinationType] = r.DestinationType.JSONValue()
	}
	if r.FundsSource != nil {
		body[KeyFundsSource] = *r.FundsSource
	}
	if r.Notes != nil {
		body[KeyNotes] = *r.Notes
	}
	if r.AssumeCosts != nil {
		body[KeyAssumeCosts] = *r.AssumeCosts
	}
	if len(r.AdditionalFees) > 0 {
		fees := make([]map[string]any, 0, len(r.AdditionalFees))
		for _, f := range r.AdditionalFees {
			fees = append(fees, map[string]any{
				KeyDestinationID: f.DestinationID,
				KeyAmount:        number(f.Amount),
			})
		}
		body[KeyAdditionalFees] = fees
	}
	if r.Metadata != nil {
		md := make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			md[k] = v
		}
		body[KeyMetadata] = md
	}
	if r.AssumeAdditionalFees != nil {
		body[KeyAssumeAdditionalFees] = *r.AssumeAdditionalFees
	}
	if r.FacilitatorAmount != nil {
		body[KeyFacilitatorAmount] = number(*r.FacilitatorAmount)
	}
	return body
}

func number(d decimal.Decimal) json.Number { return json.Number(d.String()) }
