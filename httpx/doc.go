// Package httpx is the JSON transport underneath the dwolla client:
// - JSONRequest describes a call abstractly (url, method, headers, query, body)
// - Build turns it into an *http.Request without any shared builder state
// - Client.Execute performs exactly one round trip and decodes a JSON object body
// - BuildError and TransportError classify what went wrong
// - hook points for logging without hard dependencies
package httpx
