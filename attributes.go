package gourdianauth

import (
	"fmt"
	"strconv"
	"strings"
)

// Custom multi-valued attributes ride on a single claim of type
// "extension_{name}" whose value is a comma-separated list. Segments are
// trimmed and empty segments discarded before parsing.

// AttributeElement is the set of element types a custom attribute may be
// parsed into. Enumerations are handled separately by EnumAttributeValues.
type AttributeElement interface {
	string | int | int64 | float64 | bool
}

// AttributeValues resolves the custom attribute with the given name into a
// typed slice. Any segment that fails to parse into T fails the whole
// operation with ErrAttributeParseFailure; unlike enumerations, numeric and
// boolean attributes do not tolerate bad input. A missing attribute resolves
// to an empty slice.
func AttributeValues[T AttributeElement](c Claims, name string) ([]T, error) {
	segments := attributeSegments(c, name)
	values := make([]T, 0, len(segments))
	for _, segment := range segments {
		value, err := parseAttributeSegment[T](segment)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

// EnumAttributeValues resolves the custom attribute with the given name
// against a set of enumerants, matching names case-insensitively and
// returning the canonical enumerant spelling. Segments that match no
// enumerant are silently discarded rather than failing the operation:
// upstream identity providers may introduce enumerant values the consuming
// application does not yet know about, and a whole attribute must not become
// unreadable because of one of them.
func EnumAttributeValues(c Claims, name string, enumerants []string) []string {
	segments := attributeSegments(c, name)
	values := make([]string, 0, len(segments))
	for _, segment := range segments {
		for _, enumerant := range enumerants {
			if strings.EqualFold(segment, enumerant) {
				values = append(values, enumerant)
				break
			}
		}
	}
	return values
}

// AttributeHasValue reports whether the custom attribute with the given name
// contains an element equal to candidate. It never fails: an absent attribute
// simply does not contain the candidate.
func AttributeHasValue(c Claims, name, candidate string) bool {
	for _, segment := range attributeSegments(c, name) {
		if segment == candidate {
			return true
		}
	}
	return false
}

// attributeSegments returns the trimmed, non-empty comma-separated segments
// of the extension_{name} claim, or nil when the attribute is absent.
func attributeSegments(c Claims, name string) []string {
	raw, ok := c.First(AttributePrefix + name)
	if !ok {
		return nil
	}
	var segments []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

func parseAttributeSegment[T AttributeElement](segment string) (T, error) {
	var zero T
	switch target := any(&zero).(type) {
	case *string:
		*target = segment
	case *int:
		parsed, err := strconv.Atoi(segment)
		if err != nil {
			return zero, fmt.Errorf("%w: %q is not an integer", ErrAttributeParseFailure, segment)
		}
		*target = parsed
	case *int64:
		parsed, err := strconv.ParseInt(segment, 10, 64)
		if err != nil {
			return zero, fmt.Errorf("%w: %q is not an integer", ErrAttributeParseFailure, segment)
		}
		*target = parsed
	case *float64:
		parsed, err := strconv.ParseFloat(segment, 64)
		if err != nil {
			return zero, fmt.Errorf("%w: %q is not a number", ErrAttributeParseFailure, segment)
		}
		*target = parsed
	case *bool:
		parsed, err := strconv.ParseBool(segment)
		if err != nil {
			return zero, fmt.Errorf("%w: %q is not a boolean", ErrAttributeParseFailure, segment)
		}
		*target = parsed
	default:
		return zero, fmt.Errorf("%w: %T", ErrUnsupportedAttributeType, zero)
	}
	return zero, nil
}
