package forms

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the concrete type carried by a Value.
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindDate   Kind = "date"
	KindList   Kind = "list"
)

// Value is a typed field value. Exactly one payload field is meaningful,
// selected by Kind; the zero Value means "not provided".
type Value struct {
	Kind   Kind      `json:"kind" bson:"kind"`
	Text   string    `json:"text,omitempty" bson:"text,omitempty"`
	Number float64   `json:"number,omitempty" bson:"number,omitempty"`
	Bool   bool      `json:"bool,omitempty" bson:"bool,omitempty"`
	Date   time.Time `json:"date,omitempty" bson:"date,omitempty"`
	List   []string  `json:"list,omitempty" bson:"list,omitempty"`
}

func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Number: n}
}

func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

func DateValue(t time.Time) Value {
	return Value{Kind: KindDate, Date: t}
}

func ListValue(items ...string) Value {
	return Value{Kind: KindList, List: items}
}

// IsZero reports whether the value counts as "not provided" for the
// required-field check. Explicit numbers and booleans are never zero.
func (v Value) IsZero() bool {
	switch v.Kind {
	case KindText:
		return strings.TrimSpace(v.Text) == ""
	case KindDate:
		return v.Date.IsZero()
	case KindList:
		return len(v.List) == 0
	case KindNumber, KindBool:
		return false
	default:
		return true
	}
}

// String renders the value for display. Dates use YYYY-MM-DD, lists are
// comma separated.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		if v.Bool {
			return "yes"
		}
		return "no"
	case KindDate:
		return v.Date.Format(dateLayout)
	case KindList:
		return strings.Join(v.List, ", ")
	default:
		return ""
	}
}

// Clone returns a copy that shares no mutable state with the receiver.
func (v Value) Clone() Value {
	if v.Kind == KindList && v.List != nil {
		list := make([]string, len(v.List))
		copy(list, v.List)
		v.List = list
	}
	return v
}

// Equal compares two values by kind and payload.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindText:
		return v.Text == other.Text
	case KindNumber:
		return v.Number == other.Number
	case KindBool:
		return v.Bool == other.Bool
	case KindDate:
		return v.Date.Equal(other.Date)
	case KindList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if v.List[i] != other.List[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Data maps field names to collected values.
type Data map[string]Value

// Clone returns a deep copy of the data map.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v.Clone()
	}
	return out
}

// Merge copies every entry of other into d, overwriting existing keys.
func (d Data) Merge(other Data) {
	for k, v := range other {
		d[k] = v.Clone()
	}
}

// GetText returns the text payload for key, or "".
func (d Data) GetText(key string) string {
	if v, ok := d[key]; ok && v.Kind == KindText {
		return v.Text
	}
	return ""
}

// GetNumber returns the numeric payload for key, or 0.
func (d Data) GetNumber(key string) float64 {
	if v, ok := d[key]; ok && v.Kind == KindNumber {
		return v.Number
	}
	return 0
}

// GetBool returns the boolean payload for key, or false.
func (d Data) GetBool(key string) bool {
	if v, ok := d[key]; ok && v.Kind == KindBool {
		return v.Bool
	}
	return false
}

// GetDate returns the date payload for key, or the zero time.
func (d Data) GetDate(key string) time.Time {
	if v, ok := d[key]; ok && v.Kind == KindDate {
		return v.Date
	}
	return time.Time{}
}

// GetList returns the list payload for key, or nil.
func (d Data) GetList(key string) []string {
	if v, ok := d[key]; ok && v.Kind == KindList {
		return v.List
	}
	return nil
}
