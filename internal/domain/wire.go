package domain

import (
	"encoding/json"
	"io"
)

// DecodeJSON decodes one JSON value and rejects unknown fields.
func DecodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &Error{Kind: KindValidation, Op: "decode", Msg: "malformed payload", Err: err}
	}
	return nil
}
