package record

import (
	"fmt"
	"regexp"
	"strings"
)

// DecodeMode controls how Decode treats text between pairs that is not a pair itself.
type DecodeMode uint8

const (
	// Lenient drops fragments that do not parse as a pair.
	Lenient DecodeMode = iota
	// Strict fails with a FormatError on the first such fragment.
	Strict
)

func (m DecodeMode) String() string {
	switch m {
	case Lenient:
		return "lenient"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("DecodeMode(%d)", m)
	}
}

// ParseDecodeMode maps "lenient" and "strict" to a DecodeMode.
func ParseDecodeMode(s string) (DecodeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	default:
		return Lenient, fmt.Errorf("unknown decode mode: %q (supported: lenient, strict)", s)
	}
}

// FormatError is returned by Decode for payloads it cannot turn into a Record.
type FormatError struct {
	Reason  string
	Payload string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("record: %s: %q", e.Reason, e.Payload)
}

var pairPattern = regexp.MustCompile(`'([^']*)'\s*:\s*'([^']*)'`)

// Encode renders r as {'name': 'value', 'name2': 'value2'}.
func Encode(r Record) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('\'')
		sb.WriteString(f.Name)
		sb.WriteString("': '")
		sb.WriteString(f.Value)
		sb.WriteByte('\'')
	}
	sb.WriteByte('}')
	return sb.String()
}

// Decode parses a payload produced by Encode.
//
// The payload must be wrapped in braces. Pairs are taken in order of appearance. If a name occurs
// twice the later value wins and the field keeps the position of its first occurrence.
// In Lenient mode anything between pairs is skipped, in Strict mode only whitespace and commas are allowed there.
func Decode(payload string, mode DecodeMode) (Record, error) {
	if !strings.HasPrefix(payload, "{") || !strings.HasSuffix(payload, "}") || len(payload) < 2 {
		return nil, &FormatError{Reason: "malformed envelope", Payload: payload}
	}
	body := payload[1 : len(payload)-1]

	r := Record{}
	last := 0
	for _, m := range pairPattern.FindAllStringSubmatchIndex(body, -1) {
		if mode == Strict && !isSeparator(body[last:m[0]]) {
			return nil, &FormatError{Reason: "unparseable body", Payload: payload}
		}
		r = r.set(body[m[2]:m[3]], body[m[4]:m[5]])
		last = m[1]
	}
	if mode == Strict && !isSeparator(body[last:]) {
		return nil, &FormatError{Reason: "unparseable body", Payload: payload}
	}
	return r, nil
}

func isSeparator(s string) bool {
	return strings.Trim(s, ", \t\r\n") == ""
}
