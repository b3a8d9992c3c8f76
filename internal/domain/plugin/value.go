package plugin

import "strings"

// HasValue reports whether v counts as set: nil, blank strings and empty
// lists do not; every other value does, including 0 and false.
func HasValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case []string:
		return len(val) > 0
	case []any:
		return len(val) > 0
	}
	return true
}

// MissingRequired returns the keys of required fields without a value in
// values, in declared order.
func (d Descriptor) MissingRequired(values map[string]any) []string {
	var missing []string
	for _, f := range d.fields {
		if f.required && !HasValue(values[f.key]) {
			missing = append(missing, f.key)
		}
	}
	return missing
}
