package gourdianauth

// Standard claim type identifiers.
//
// The schema URIs mirror the WS-* identity claim vocabulary that many identity
// providers still emit alongside the short OIDC names. Resolution helpers in
// resolver.go try both vocabularies in a fixed order, so callers never need to
// know which one their provider uses.
const (
	ClaimTypeNameIdentifier = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	ClaimTypeEmailAddress   = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
	ClaimTypeFullName       = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
	ClaimTypeSurname        = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/surname"

	ClaimTypeSubject           = "sub"
	ClaimTypeEmail             = "email"
	ClaimTypeName              = "name"
	ClaimTypeGivenName         = "given_name"
	ClaimTypeFamilyName        = "family_name"
	ClaimTypeUPN               = "upn"
	ClaimTypePreferredUsername = "preferred_username"
	ClaimTypeUniqueName        = "unique_name"
	ClaimTypeRole              = "role"

	ClaimTypeIssuer   = "iss"
	ClaimTypeAudience = "aud"
	ClaimTypeExpires  = "exp"
	ClaimTypeIssuedAt = "iat"
	ClaimTypeTokenID  = "jti"
)

// AttributePrefix is prepended to a custom attribute name to form the claim
// type that carries its comma-separated values.
const AttributePrefix = "extension_"

// Claim is a single typed assertion about an identity. Multiple claims may
// share a type; insertion order is preserved and the resolution helpers always
// take the first non-empty match.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Claims is an ordered claim set as recovered from a token payload.
type Claims []Claim

// First returns the value of the first claim whose type matches any of the
// candidate types, tried in the given order. Claims with empty values are
// skipped.
func (c Claims) First(types ...string) (string, bool) {
	for _, typ := range types {
		for _, claim := range c {
			if claim.Type == typ && claim.Value != "" {
				return claim.Value, true
			}
		}
	}
	return "", false
}

// All returns every value carried by claims of the given type, in order.
func (c Claims) All(typ string) []string {
	var values []string
	for _, claim := range c {
		if claim.Type == typ {
			values = append(values, claim.Value)
		}
	}
	return values
}

// Has reports whether a claim of the given type exists with the given value.
func (c Claims) Has(typ, value string) bool {
	for _, claim := range c {
		if claim.Type == typ && claim.Value == value {
			return true
		}
	}
	return false
}

// Roles returns every role claim value, in order.
func (c Claims) Roles() []string {
	return c.All(ClaimTypeRole)
}
