package jsonrpc2

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeCBOR = "application/cbor"
)

var errUnsupportedMediaType = errors.New("unsupported media type")

// codec converts between a wire encoding and the JSON the processor works
// on. JSON bodies pass through untouched.
type codec interface {
	contentType() string
	toJSON(body []byte) ([]byte, error)
	fromJSON(body []byte) ([]byte, error)
}

// codecFor picks the codec for a Content-Type header. An empty header is
// treated as JSON.
func codecFor(header string) (codec, error) {
	if header == "" {
		return jsonCodec{}, nil
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errUnsupportedMediaType, header)
	}
	switch mediaType {
	case ContentTypeJSON:
		return jsonCodec{}, nil
	case ContentTypeCBOR:
		return cborCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %s", errUnsupportedMediaType, mediaType)
}

type jsonCodec struct{}

func (jsonCodec) contentType() string                  { return ContentTypeJSON }
func (jsonCodec) toJSON(body []byte) ([]byte, error)   { return body, nil }
func (jsonCodec) fromJSON(body []byte) ([]byte, error) { return body, nil }

// cborDecMode decodes CBOR maps with string keys so the result can be
// rendered as JSON objects.
var cborDecMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

type cborCodec struct{}

func (cborCodec) contentType() string { return ContentTypeCBOR }

func (cborCodec) toJSON(body []byte) ([]byte, error) {
	var v any
	if err := cborDecMode.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("failed to decode CBOR body: %w", err)
	}
	return json.Marshal(v)
}

func (cborCodec) fromJSON(body []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return cbor.Marshal(normalizeNumbers(v))
}

// normalizeNumbers replaces json.Number values with int64 where the number
// is integral and float64 otherwise, so CBOR encodes them as numbers.
func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeNumbers(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalizeNumbers(e)
		}
		return x
	}
	return v
}
