// Package jsonpath implements the dotted/bracket path syntax shared by
// footer targets (response-body.PATH), placeholders
// (dependency.response-body.PATH), and the response model's lazy JSON
// lookup (§4.9, §9). Every path segment is treated as a literal object
// key; "[N]" selects an array element. The package deliberately does not
// hand a composed dotted string to gjson's own path syntax, since gjson's
// wildcard/modifier characters would silently reinterpret a literal key
// the spec requires taken at face value (§9's Design Notes forbid
// "guessing" path semantics); instead each segment is resolved one gjson
// lookup at a time.
package jsonpath

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

type segmentKind int

const (
	kindProperty segmentKind = iota
	kindIndex
)

type segment struct {
	kind  segmentKind
	key   string
	index int
}

// Parse splits path into literal property and array-index segments, e.g.
// "items[0].id" -> [Property("items"), Index(0), Property("id")].
func Parse(path string) []segment {
	var segs []segment
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, segment{kind: kindProperty, key: cur.String()})
			cur.Reset()
		}
	}
	runes := []rune(path)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.':
			flush()
		case '[':
			flush()
			j := i + 1
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			idx, err := strconv.Atoi(string(runes[i+1 : j]))
			if err == nil {
				segs = append(segs, segment{kind: kindIndex, index: idx})
			}
			i = j
		default:
			cur.WriteRune(runes[i])
		}
	}
	flush()
	return segs
}

// ErrNotFound is returned by Navigate when any segment of the path cannot
// be resolved against the parsed JSON (missing property, non-object
// property access, out-of-bounds or non-array index access).
type ErrNotFound struct{ msg string }

func (e ErrNotFound) Error() string { return e.msg }

// Navigate walks parsed into path one segment at a time and returns the
// terminal gjson.Result.
func Navigate(parsed gjson.Result, path string) (gjson.Result, error) {
	current := parsed
	for _, seg := range Parse(path) {
		switch seg.kind {
		case kindProperty:
			if !current.IsObject() {
				return gjson.Result{}, ErrNotFound{msg: "cannot access property '" + seg.key + "' on non-object"}
			}
			next := current.Get(gjson.Escape(seg.key))
			if !next.Exists() {
				return gjson.Result{}, ErrNotFound{msg: "property '" + seg.key + "' not found"}
			}
			current = next
		case kindIndex:
			if !current.IsArray() {
				return gjson.Result{}, ErrNotFound{msg: "cannot access index on non-array"}
			}
			arr := current.Array()
			if seg.index < 0 || seg.index >= len(arr) {
				return gjson.Result{}, ErrNotFound{msg: "array index out of bounds"}
			}
			current = arr[seg.index]
		}
	}
	return current, nil
}

// Stringify renders a terminal gjson.Result as text the way §4.9 and
// §4.5 require: strings verbatim, numbers without trailing zeros, booleans
// as true/false, null as "null", and objects/arrays as minimized JSON.
func Stringify(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.String()
	case gjson.Number:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	case gjson.Null:
		return "null"
	default:
		return v.Raw
	}
}

// Lookup parses body as JSON and navigates path in one call, returning
// ("", false) on any parse or navigation failure so callers can apply
// their own "path not found" fallback text.
func Lookup(body []byte, path string) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	parsed := gjson.ParseBytes(body)
	result, err := Navigate(parsed, path)
	if err != nil {
		return "", false
	}
	return Stringify(result), true
}
