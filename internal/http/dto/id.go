package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a snowflake id. Clients may send it as a JSON string or number;
// responses always carry it as a string so JavaScript keeps every digit.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", b)
	}
	*id = ID(v)
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(id), 10))), nil
}
