package frame

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the element type of a column. It is fixed when the column is
// constructed and never inferred afterwards.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindTime
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindInt:     "int64",
	KindFloat:   "float64",
	KindBool:    "bool",
	KindString:  "string",
	KindTime:    "time",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Numeric reports whether the kind is an integer or floating-point kind.
func (k Kind) Numeric() bool { return k == KindInt || k == KindFloat }

// Categorical reports whether the kind is the generic text kind.
func (k Kind) Categorical() bool { return k == KindString }

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Parse converts s to a value of kind k, using the same forms Format
// produces. Times may also be given as a plain date.
func (k Kind) Parse(s string) (any, error) {
	s = strings.TrimSpace(s)
	switch k {
	case KindInt:
		return strconv.ParseInt(s, 10, 64)
	case KindFloat:
		return strconv.ParseFloat(s, 64)
	case KindBool:
		return strconv.ParseBool(s)
	case KindString:
		return s, nil
	case KindTime:
		if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return ts, nil
		}
		return time.Parse(time.DateOnly, s)
	}
	return nil, fmt.Errorf("cannot parse %s values", k)
}
