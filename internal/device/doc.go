// Package device holds the normalized device records produced by discovery
// and hub monitoring, and the pure functions that build them from raw
// device-control payloads.
//
// Every function here is deterministic: the same payload always yields the
// same record, and the same record always serializes to the same bytes.
package device
