package adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// JSON encodes the chain events carried on the stream and decodes them,
// along with the deployment manifest, on the way back in
//
//go:generate mockgen -source=json.go -destination=../mocks/json.go -package=mocks -mock_names=JSON=MockJSON
type JSON interface {
	Marshal(v interface{}) ([]byte, error)

	// Unmarshal ignores fields that v does not declare
	Unmarshal(data []byte, v interface{}) error

	// UnmarshalStrict rejects fields that v does not declare and trailing data
	UnmarshalStrict(data []byte, v interface{}) error
}

var errTrailingData = errors.New("unexpected data after top-level value")

type stdJSON struct{}

// NewJSON returns the encoding/json backed implementation
func NewJSON() JSON {
	return stdJSON{}
}

func (stdJSON) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (stdJSON) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (stdJSON) UnmarshalStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}
