package validation

import (
	"fmt"
	"strings"
)

// DefaultMessage renders short messages in the style of common JavaScript
// validators so client and server feedback read the same.
func DefaultMessage(rec ErrorRecord) string {
	p := rec.Params
	switch rec.Keyword {
	case "required":
		return fmt.Sprintf("must have required property '%v'", p["missingProperty"])
	case "minLength":
		return fmt.Sprintf("must NOT have fewer than %v characters", p["limit"])
	case "maxLength":
		return fmt.Sprintf("must NOT have more than %v characters", p["limit"])
	case "minItems":
		return fmt.Sprintf("must NOT have fewer than %v items", p["limit"])
	case "maxItems":
		return fmt.Sprintf("must NOT have more than %v items", p["limit"])
	case "minProperties":
		return fmt.Sprintf("must NOT have fewer than %v properties", p["limit"])
	case "maxProperties":
		return fmt.Sprintf("must NOT have more than %v properties", p["limit"])
	case "uniqueItems":
		return "must NOT have duplicate items"
	case "pattern":
		return fmt.Sprintf(`must match pattern "%v"`, p["pattern"])
	case "format":
		return fmt.Sprintf(`must match format "%v"`, p["format"])
	case "enum":
		return "must be equal to one of the allowed values"
	case "const":
		return "must be equal to constant"
	case "type":
		if t, _ := p["type"].(string); t != "" {
			return "must be " + strings.ReplaceAll(t, ",", " or ")
		}
		return ""
	case "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum":
		if _, ok := p["limit"]; !ok {
			return ""
		}
		return fmt.Sprintf("must be %v %v", p["comparison"], p["limit"])
	case "multipleOf":
		return fmt.Sprintf("must be multiple of %v", p["multipleOf"])
	case "additionalProperties":
		return "must NOT have additional properties"
	case "oneOf":
		return "must match exactly one schema in oneOf"
	case "anyOf":
		return "must match a schema in anyOf"
	case "not":
		return "must NOT be valid"
	default:
		return ""
	}
}
