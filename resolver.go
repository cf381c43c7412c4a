package gourdianauth

import (
	"net/mail"
	"strings"
)

// Identity field resolution. Each field is resolved independently by trying a
// fixed, ordered list of candidate claim types and returning the first
// non-empty match. Only the subject identifier is mandatory; every other
// field reports absence through its boolean return.

// SubjectID resolves the canonical subject identifier, preferring the
// name-identifier schema claim over the OIDC sub claim. It fails with
// ErrIdentityNotResolvable when neither is present, since no identity
// question can be answered without a subject.
func (c Claims) SubjectID() (string, error) {
	if value, ok := c.First(ClaimTypeNameIdentifier, ClaimTypeSubject); ok {
		return value, nil
	}
	return "", ErrIdentityNotResolvable
}

// Email resolves the identity's email address, trying the schema email claim,
// then the OIDC email claim, then upn, preferred_username and unique_name.
// The resolved value must be a syntactically valid address; otherwise
// resolution yields empty even though a candidate claim is present.
func (c Claims) Email() (string, bool) {
	value, ok := c.First(
		ClaimTypeEmailAddress,
		ClaimTypeEmail,
		ClaimTypeUPN,
		ClaimTypePreferredUsername,
		ClaimTypeUniqueName,
	)
	if !ok || !isValidEmailAddress(value) {
		return "", false
	}
	return value, true
}

// DisplayName resolves a human-readable name, trying the schema name claim,
// the OIDC name claim, then the given name.
func (c Claims) DisplayName() (string, bool) {
	return c.First(ClaimTypeFullName, ClaimTypeName, ClaimTypeGivenName)
}

// GivenName resolves the given_name claim.
func (c Claims) GivenName() (string, bool) {
	return c.First(ClaimTypeGivenName)
}

// FamilyName resolves the family_name claim.
func (c Claims) FamilyName() (string, bool) {
	return c.First(ClaimTypeFamilyName)
}

// Surname resolves the schema surname claim, falling back to family_name.
func (c Claims) Surname() (string, bool) {
	return c.First(ClaimTypeSurname, ClaimTypeFamilyName)
}

// UPN resolves the upn claim.
func (c Claims) UPN() (string, bool) {
	return c.First(ClaimTypeUPN)
}

// PreferredUsername resolves the preferred_username claim.
func (c Claims) PreferredUsername() (string, bool) {
	return c.First(ClaimTypePreferredUsername)
}

// UniqueName resolves the unique_name claim.
func (c Claims) UniqueName() (string, bool) {
	return c.First(ClaimTypeUniqueName)
}

// isValidEmailAddress checks that the value parses as a bare RFC 5322 address
// with no display-name portion.
func isValidEmailAddress(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	return addr.Address == strings.TrimSpace(value)
}
