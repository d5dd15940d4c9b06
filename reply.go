package mirror

import (
	"fmt"
	"strconv"
)

// ParseError reports a store reply whose shape did not match what the
// caller expected. Raw holds the offending reply.
type ParseError struct {
	Reason string
	Raw    any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s (reply: %s)", ErrParse, e.Reason, describe(e.Raw))
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func parseError(reason string, raw any) error {
	return &ParseError{Reason: reason, Raw: raw}
}

func describe(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "nil"
	case []byte:
		return strconv.Quote(string(v))
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprintf("%#v", v)
	}
}

// Decoder converts one store reply into a typed result.
type Decoder[T any] func(reply any) (T, error)

func bulk(reply any) ([]byte, bool) {
	switch v := reply.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}

// Bytes decodes a bulk reply. Nil is an error; wrap with Optional to allow it.
func Bytes(reply any) ([]byte, error) {
	if reply == nil {
		return nil, parseError("value is nil", reply)
	}
	b, ok := bulk(reply)
	if !ok {
		return nil, parseError("value is not bytes", reply)
	}
	return b, nil
}

// Int decodes an integer reply.
func Int(reply any) (int64, error) {
	n, ok := reply.(int64)
	if !ok {
		return 0, parseError("value is not an integer", reply)
	}
	return n, nil
}

// Bool decodes an integer reply as a boolean (0 false, anything else true).
func Bool(reply any) (bool, error) {
	n, err := Int(reply)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// ID decodes an identifier stored in decimal ASCII form.
func ID(reply any) (uint64, error) {
	b, ok := bulk(reply)
	if !ok {
		return 0, parseError("value is not an identifier", reply)
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0, parseError("failed to parse identifier", reply)
	}
	return id, nil
}

// EncodeID renders an identifier in the decimal ASCII form ID decodes.
func EncodeID(id uint64) []byte {
	return strconv.AppendUint(make([]byte, 0, 20), id, 10)
}

// Value returns a decoder that unmarshals a bulk reply with c.
func Value[T any](c Codec) Decoder[T] {
	return func(reply any) (T, error) {
		var v T
		data, err := Bytes(reply)
		if err != nil {
			return v, err
		}
		if err := c.Decode(data, &v); err != nil {
			return v, parseError("failed to decode value: "+err.Error(), reply)
		}
		return v, nil
	}
}

// Optional wraps d so that a nil reply yields a nil pointer instead of an error.
func Optional[T any](d Decoder[T]) Decoder[*T] {
	return func(reply any) (*T, error) {
		if reply == nil {
			return nil, nil
		}
		v, err := d(reply)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
}

// Slice decodes an array reply element by element. The first failure aborts.
func Slice[T any](d Decoder[T]) Decoder[[]T] {
	return func(reply any) ([]T, error) {
		arr, ok := reply.([]any)
		if !ok {
			return nil, parseError("value is not an array", reply)
		}
		out := make([]T, 0, len(arr))
		for i, elem := range arr {
			v, err := d(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// Target receives one positional element of a tuple reply.
type Target func(reply any) error

// Into returns a Target that decodes with d and stores the result in dst.
func Into[T any](dst *T, d Decoder[T]) Target {
	return func(reply any) error {
		v, err := d(reply)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// Discard is a Target that accepts any reply.
func Discard(any) error { return nil }

// Tuple decodes an array reply positionally into targets.
// The array must have exactly len(targets) elements.
func Tuple(reply any, targets ...Target) error {
	arr, ok := reply.([]any)
	if !ok {
		return parseError("value is not an array", reply)
	}
	if len(arr) < len(targets) {
		return parseError("insufficient elements in array", reply)
	}
	if len(arr) > len(targets) {
		return parseError("excessive elements in array", reply)
	}
	for i, target := range targets {
		if err := target(arr[i]); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// ScanPage is one page of a set scan.
type ScanPage struct {
	Cursor  uint64
	Members [][]byte
}

// Scan decodes an SSCAN reply: a cursor followed by an array of members.
func Scan(reply any) (ScanPage, error) {
	var page ScanPage
	err := Tuple(reply,
		Into(&page.Cursor, ID),
		Into(&page.Members, Slice(Bytes)),
	)
	return page, err
}
