package gateway

import (
	"bytes"
	"fmt"
	"strconv"
)

// ID is a 64-bit snowflake. It travels as a JSON string and also accepts
// JSON numbers. The zero ID means absent.
type ID uint64

// String returns the decimal form of the id.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// IsZero reports whether the id is absent.
func (id ID) IsZero() bool { return id == 0 }

// MarshalJSON encodes the id as a quoted decimal string.
func (id ID) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 22)
	b = append(b, '"')
	b = strconv.AppendUint(b, uint64(id), 10)
	return append(b, '"'), nil
}

// UnmarshalJSON decodes a quoted or bare decimal id. null decodes to zero.
func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if n := len(data); n >= 2 && data[0] == '"' && data[n-1] == '"' {
		data = data[1 : n-1]
	}
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("gateway: invalid snowflake %q: %w", data, err)
	}
	*id = ID(n)
	return nil
}
