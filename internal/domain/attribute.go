package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AttributeValue is a closed tagged union over the attribute types a category can declare.
// Only the field matching Kind is meaningful.
type AttributeValue struct {
	Kind AttributeType
	Str  string
	Num  float64
	Bool bool
	List []string
}

func StringValue(s string) AttributeValue { return AttributeValue{Kind: AttributeString, Str: s} }
func NumberValue(n float64) AttributeValue { return AttributeValue{Kind: AttributeNumber, Num: n} }
func BoolValue(b bool) AttributeValue { return AttributeValue{Kind: AttributeBoolean, Bool: b} }
func ListValue(l []string) AttributeValue { return AttributeValue{Kind: AttributeArray, List: l} }

// IsZero reports whether the value carries nothing worth voting for
func (v AttributeValue) IsZero() bool {
	switch v.Kind {
	case AttributeString:
		return strings.TrimSpace(v.Str) == ""
	case AttributeArray:
		return len(v.List) == 0
	case AttributeNumber, AttributeBoolean:
		return false
	default:
		return true
	}
}

// Key returns a canonical string used to compare values when voting
func (v AttributeValue) Key() string {
	switch v.Kind {
	case AttributeString:
		return "s:" + strings.ToLower(strings.TrimSpace(v.Str))
	case AttributeNumber:
		return "n:" + strconv.FormatFloat(v.Num, 'g', -1, 64)
	case AttributeBoolean:
		return "b:" + strconv.FormatBool(v.Bool)
	case AttributeArray:
		items := make([]string, len(v.List))
		for i, item := range v.List {
			items[i] = strings.ToLower(strings.TrimSpace(item))
		}
		return "a:" + strings.Join(items, "\x1f")
	default:
		return ""
	}
}

// MarshalJSON encodes the value as a plain JSON scalar or string array
func (v AttributeValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AttributeString:
		return json.Marshal(v.Str)
	case AttributeNumber:
		return json.Marshal(v.Num)
	case AttributeBoolean:
		return json.Marshal(v.Bool)
	case AttributeArray:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	default:
		return nil, fmt.Errorf("attribute value has no kind")
	}
}

// UnmarshalJSON accepts strings, numbers, booleans and arrays of strings.
// Objects and null are rejected.
func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty attribute value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case '[':
		var l []string
		if err := json.Unmarshal(data, &l); err != nil {
			return fmt.Errorf("attribute arrays must contain strings: %w", err)
		}
		*v = ListValue(l)
	case '{', 'n':
		return fmt.Errorf("unsupported attribute value %s", string(data))
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = NumberValue(n)
	}
	return nil
}
