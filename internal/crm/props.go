package crm

import "strconv"

// Prop returns the named property, or empty string when absent.
func (r *Record) Prop(key string) string {
	if r == nil || r.Properties == nil {
		return ""
	}

	return r.Properties[key]
}

// FloatProp parses the named property as a float, returning fallback
// when the property is absent or not numeric.
func (r *Record) FloatProp(key string, fallback float64) float64 {
	s := r.Prop(key)
	if s == "" {
		return fallback
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}

	return f
}

// IntProp parses the named property as an integer, returning fallback
// when the property is absent or not numeric.
func (r *Record) IntProp(key string, fallback int) int {
	s := r.Prop(key)
	if s == "" {
		return fallback
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}

	return n
}

// BoolProp reports whether the named property is the literal string
// "true" or "Yes". The external store has no boolean type; both
// spellings occur depending on which form wrote the field. Comparison
// is exact, not case-insensitive.
func (r *Record) BoolProp(key string) bool {
	s := r.Prop(key)
	return s == "true" || s == "Yes"
}
