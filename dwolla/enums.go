package dwolla

import (
	"fmt"
	"strings"
)

type DestinationType int

const (
	DestinationDwolla DestinationType = iota + 1
	DestinationEmail
	DestinationPhone
	DestinationTwitter
	DestinationFacebook
	DestinationLinkedIn
)

var destinationTypeValues = map[DestinationType]string{
	DestinationDwolla:   "dwolla",
	DestinationEmail:    "email",
	DestinationPhone:    "phone",
	DestinationTwitter:  "twitter",
	DestinationFacebook: "facebook",
	DestinationLinkedIn: "linkedin",
}

// JSONValue returns the wire value, or "" for a value outside the declared set.
func (d DestinationType) JSONValue() string { return destinationTypeValues[d] }

func (d DestinationType) String() string { return d.JSONValue() }

func ParseDestinationType(s string) (DestinationType, error) {
	return parseEnum(destinationTypeValues, "destination type", s)
}

type TransactionStatus int

const (
	StatusPending TransactionStatus = iota + 1
	StatusProcessed
	StatusFailed
	StatusCancelled
	StatusReclaimed
)

var transactionStatusValues = map[TransactionStatus]string{
	StatusPending:   "pending",
	StatusProcessed: "processed",
	StatusFailed:    "failed",
	StatusCancelled: "cancelled",
	StatusReclaimed: "reclaimed",
}

func (s TransactionStatus) JSONValue() string { return transactionStatusValues[s] }

func (s TransactionStatus) String() string { return s.JSONValue() }

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	return parseEnum(transactionStatusValues, "transaction status", s)
}

type TransactionType int

const (
	TypeMoneySent TransactionType = iota + 1
	TypeMoneyReceived
	TypeDeposit
	TypeWithdrawal
	TypeFee
)

var transactionTypeValues = map[TransactionType]string{
	TypeMoneySent:     "money_sent",
	TypeMoneyReceived: "money_received",
	TypeDeposit:       "deposit",
	TypeWithdrawal:    "withdrawal",
	TypeFee:           "fee",
}

func (t TransactionType) JSONValue() string { return transactionTypeValues[t] }

func (t TransactionType) String() string { return t.JSONValue() }

func ParseTransactionType(s string) (TransactionType, error) {
	return parseEnum(transactionTypeValues, "transaction type", s)
}

// Scope is an OAuth permission requested for a token.
type Scope int

const (
	ScopeSend Scope = iota + 1
	ScopeTransactions
	ScopeBalance
	ScopeRequest
	ScopeContacts
	ScopeAccountInfoFull
	ScopeFunding
)

var scopeValues = map[Scope]string{
	ScopeSend:            "send",
	ScopeTransactions:    "transactions",
	ScopeBalance:         "balance",
	ScopeRequest:         "request",
	ScopeContacts:        "contacts",
	ScopeAccountInfoFull: "accountinfofull",
	ScopeFunding:         "funding",
}

func (s Scope) JSONValue() string { return scopeValues[s] }

func (s Scope) String() string { return s.JSONValue() }

func ParseScope(s string) (Scope, error) {
	return parseEnum(scopeValues, "scope", s)
}

// JoinScopes renders scopes the way the OAuth endpoints expect them ("send|balance").
func JoinScopes(scopes ...Scope) string {
	parts := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if v := s.JSONValue(); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "|")
}

func parseEnum[E comparable](values map[E]string, what, s string) (E, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for e, v := range values {
		if v == want {
			return e, nil
		}
	}
	var zero E
	return zero, fmt.Errorf("dwolla: unknown %s %q", what, s)
}
