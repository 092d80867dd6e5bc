package convert

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by ParseJSON for malformed documents.
var ErrInvalidJSON = errors.New("invalid JSON")

// Value is a parsed JSON value: one of Null, Bool, Number, String, Array or
// Object.
type Value interface {
	jsonValue()
}

type (
	Null   struct{}
	Bool   bool
	Number float64
	String string
	Array  []Value
	// Object keeps members in document order.
	Object []Member
)

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

func (Null) jsonValue()   {}
func (Bool) jsonValue()   {}
func (Number) jsonValue() {}
func (String) jsonValue() {}
func (Array) jsonValue()  {}
func (Object) jsonValue() {}

// ParseJSON parses raw into a Value. Object keys keep their source order; a
// repeated key replaces the earlier value but keeps the earlier position.
//
// The document is validated first and then built in one pass without
// recursion, so deeply nested input costs time linear in its size.
func ParseJSON(raw string) (Value, error) {
	if !gjson.Valid(raw) {
		return nil, ErrInvalidJSON
	}
	return build(raw), nil
}

// container is an array or object under construction
type container struct {
	isObject bool
	array    Array
	object   Object
	seen     map[string]int
	key      string
	hasKey   bool
}

func (c *container) value() Value {
	if c.isObject {
		return c.object
	}
	return c.array
}

func (c *container) add(v Value) {
	if !c.isObject {
		c.array = append(c.array, v)
		return
	}
	if !c.hasKey {
		c.key, c.hasKey = string(v.(String)), true
		return
	}
	c.hasKey = false
	if i, ok := c.seen[c.key]; ok {
		c.object[i].Value = v
		return
	}
	c.seen[c.key] = len(c.object)
	c.object = append(c.object, Member{Key: c.key, Value: v})
}

// build assembles a validated document. Scalars are decoded by gjson.
func build(raw string) Value {
	var (
		stack []*container
		root  Value
	)
	emit := func(v Value) {
		if len(stack) == 0 {
			root = v
			return
		}
		stack[len(stack)-1].add(v)
	}

	for i := 0; i < len(raw); {
		switch c := raw[i]; c {
		case ' ', '\t', '\n', '\r', ',', ':':
			i++
		case '{':
			stack = append(stack, &container{isObject: true, object: Object{}, seen: map[string]int{}})
			i++
		case '[':
			stack = append(stack, &container{array: Array{}})
			i++
		case '}', ']':
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			emit(top.value())
			i++
		case '"':
			end := stringEnd(raw, i)
			emit(String(gjson.Parse(raw[i:end]).Str))
			i = end
		case 't':
			emit(Bool(true))
			i += len("true")
		case 'f':
			emit(Bool(false))
			i += len("false")
		case 'n':
			emit(Null{})
			i += len("null")
		default:
			end := i + 1
			for end < len(raw) && strings.IndexByte("+-.0123456789eE", raw[end]) >= 0 {
				end++
			}
			emit(Number(gjson.Parse(raw[i:end]).Num))
			i = end
		}
	}
	return root
}

// stringEnd returns the index just past the string literal starting at i
func stringEnd(raw string, i int) int {
	for j := i + 1; j < len(raw); j++ {
		switch raw[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(raw)
}

// FormatNumber renders f the way a JavaScript Number is converted to a
// string: shortest round-trip digits, exponent notation outside
// [1e-6, 1e21), and NaN/Infinity spelled out.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + exp[:1] + digits
}
