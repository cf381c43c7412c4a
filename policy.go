package gourdianauth

// Declarative authorization policy descriptors. The host framework's policy
// store evaluates these; this package only constructs the rule description
// and offers Satisfied for local checks.

// ClaimRequirement requires a claim of ClaimType carrying one of
// AllowedValues.
type ClaimRequirement struct {
	ClaimType     string   `json:"claim_type"`
	AllowedValues []string `json:"allowed_values"`
}

// RequireClaim builds a requirement for the given claim type and values.
func RequireClaim(claimType string, values ...string) ClaimRequirement {
	return ClaimRequirement{
		ClaimType:     claimType,
		AllowedValues: values,
	}
}

// RequireRole builds a requirement for one of the given role claim values.
func RequireRole(roles ...string) ClaimRequirement {
	return RequireClaim(ClaimTypeRole, roles...)
}

// Satisfied reports whether the claim set carries a claim of the required
// type with any of the allowed values. A requirement with no allowed values
// is satisfied by any claim of the type.
func (r ClaimRequirement) Satisfied(c Claims) bool {
	if len(r.AllowedValues) == 0 {
		_, ok := c.First(r.ClaimType)
		return ok
	}
	for _, value := range r.AllowedValues {
		if c.Has(r.ClaimType, value) {
			return true
		}
	}
	return false
}

// Policy is a named conjunction of claim requirements.
type Policy struct {
	Name         string             `json:"name"`
	Requirements []ClaimRequirement `json:"requirements"`
}

// NewPolicy builds a policy from the given requirements.
func NewPolicy(name string, requirements ...ClaimRequirement) Policy {
	return Policy{
		Name:         name,
		Requirements: requirements,
	}
}

// Satisfied reports whether the claim set meets every requirement.
func (p Policy) Satisfied(c Claims) bool {
	for _, requirement := range p.Requirements {
		if !requirement.Satisfied(c) {
			return false
		}
	}
	return true
}
