package model

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// ValueKind discriminates the payload of a Value.
//
// Values:
//
//	ValueInvalid | ValueInteger | ValueText
type ValueKind string

const (
	ValueInvalid ValueKind = "invalid"
	ValueInteger ValueKind = "integer"
	ValueText    ValueKind = "text"
)

// Value is the tagged union reported per variable: an exact machine integer, or the
// canonical numeral text when the integer does not fit the configured width.
type Value struct {
	kind    ValueKind
	intVal  int64
	textVal string
}

// NewIntegerValue creates a Value that stores a machine integer.
//
// Parameters:
//
//	v int64: Numeric payload to wrap.
//
// Returns:
//
//	Value: A Value tagged as ValueInteger.
func NewIntegerValue(v int64) Value {
	return Value{kind: ValueInteger, intVal: v}
}

// NewTextValue creates a Value that stores the textual rendering of a term.
//
// Parameters:
//
//	v string: Canonical SMT-LIB text of the term.
//
// Returns:
//
//	Value: A Value tagged as ValueText.
func NewTextValue(v string) Value {
	return Value{kind: ValueText, textVal: v}
}

// Kind returns the discriminator, defaulting to ValueInvalid when unset.
func (v Value) Kind() ValueKind {
	if v.kind == "" {
		return ValueInvalid
	}
	return v.kind
}

// Int64 returns the integer payload when the Value represents an integer.
//
// Returns:
//
//	int64: Stored integer value.
//	bool: True when the Value actually contains an integer.
func (v Value) Int64() (int64, bool) {
	if v.kind != ValueInteger {
		return 0, false
	}
	return v.intVal, true
}

// Text returns the textual payload when the Value represents text.
//
// Returns:
//
//	string: Stored rendering.
//	bool: True when the Value actually contains text.
func (v Value) Text() (string, bool) {
	if v.kind != ValueText {
		return "", false
	}
	return v.textVal, true
}

// BigInt parses the value back into an arbitrary precision integer. Text values in the
// (- n) form are understood.
func (v Value) BigInt() (*big.Int, bool) {
	switch v.kind {
	case ValueInteger:
		return big.NewInt(v.intVal), true
	case ValueText:
		text, negative := v.textVal, false
		if len(text) > 4 && text[:3] == "(- " && text[len(text)-1] == ')' {
			text, negative = text[3:len(text)-1], true
		}
		value, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return nil, false
		}
		if negative {
			value.Neg(value)
		}
		return value, true
	default:
		return nil, false
	}
}

// AsInterface returns int64 or string for the stored payload, nil when invalid.
func (v Value) AsInterface() any {
	switch v.kind {
	case ValueInteger:
		return v.intVal
	case ValueText:
		return v.textVal
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case ValueInteger:
		return strconv.FormatInt(v.intVal, 10)
	case ValueText:
		return v.textVal
	default:
		return "<invalid>"
	}
}

// MarshalJSON encodes integers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueInteger:
		return []byte(strconv.FormatInt(v.intVal, 10)), nil
	case ValueText:
		return json.Marshal(v.textVal)
	default:
		return nil, fmt.Errorf("model: cannot marshal %s value", v.Kind())
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*v = NewTextValue(text)
		return nil
	}
	var number int64
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("model: value must be an integer or a string: %w", err)
	}
	*v = NewIntegerValue(number)
	return nil
}
