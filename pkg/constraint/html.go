package constraint

import "strconv"

// HTMLAttributes converts constraints into the attribute set understood by
// browsers. Multiple constraints combine; the result is never nil.
func HTMLAttributes(constraints []Constraint) map[string]string {
	attrs := make(map[string]string, len(constraints))
	for _, c := range constraints {
		switch c.Kind {
		case KindNotNull, KindNotBlank, KindNotEmpty:
			attrs["required"] = ""
		case KindSize:
			if c.Max != Unbounded {
				attrs["maxlength"] = strconv.FormatInt(c.Max, 10)
			}
			if c.Min > 0 {
				attrs["minlength"] = strconv.FormatInt(c.Min, 10)
			}
		case KindPattern:
			attrs["pattern"] = c.Pattern
		case KindMin:
			attrs["min"] = strconv.FormatInt(c.Min, 10)
		case KindMax:
			attrs["max"] = strconv.FormatInt(c.Max, 10)
		case KindEmail:
			// rendered through InputType
		}
	}
	return attrs
}

// InputType returns the semantic input type implied by the constraints, or an
// empty string when none applies.
func InputType(constraints []Constraint) string {
	for _, c := range constraints {
		if c.Kind == KindEmail {
			return "email"
		}
	}
	return ""
}
