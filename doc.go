// Package gourdianauth provides JWT issuance and parsing, claim-based identity
// resolution, and refresh-token bookkeeping for Go applications.
//
// Features:
// - HMAC-SHA256 compact token encoding and decoding
// - Structural token inspection without signature validation
// - Ordered-fallback resolution of identity fields from claim sets
// - Multi-valued custom attribute parsing (extension_* claims)
// - Opaque refresh-token generation with pluggable server-side storage
// - Declarative claim-requirement policy descriptors
package gourdianauth
