// Package dwolla is a small client for the Dwolla REST API.
//
// Every call returns a Response[T] envelope instead of an error: transport and
// decoding failures are reported with Success set to false and a descriptive
// Message, so callers branch on a single value.
package dwolla
