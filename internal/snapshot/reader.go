package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Reader walks a document token by token. Calls must follow the document
// shape: BeginDocument, NextName + ReadHeader, then for every array
// NextName, BeginArray, More/ReadRecord until More is false, EndArray, and
// finally EndDocument.
type Reader struct {
	dec     *json.Decoder
	section string
	record  int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Reader{dec: dec}
}

func (r *Reader) fail(reason string, err error) error {
	var syn *json.SyntaxError
	switch {
	case err == nil:
	case errors.As(err, &syn), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
	default:
		return &IOError{Op: "read", Err: err}
	}
	return &FormatError{Section: r.section, Record: r.record, Reason: reason, Err: err}
}

func (r *Reader) delim(want json.Delim) error {
	tok, err := r.dec.Token()
	if err != nil {
		return r.fail(fmt.Sprintf("expected %q", want), err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return r.fail(fmt.Sprintf("expected %q, found %v", want, tok), nil)
	}
	return nil
}

// BeginDocument consumes the opening brace.
func (r *Reader) BeginDocument() error {
	return r.delim('{')
}

// NextName reads the name of the next document member.
func (r *Reader) NextName() (string, error) {
	r.record = 0
	if !r.dec.More() {
		return "", r.fail("unexpected end of document", nil)
	}
	tok, err := r.dec.Token()
	if err != nil {
		return "", r.fail("expected member name", err)
	}
	name, ok := tok.(string)
	if !ok {
		return "", r.fail(fmt.Sprintf("expected member name, found %v", tok), nil)
	}
	r.section = name
	return name, nil
}

// ReadHeader reads the header object that follows the header name.
func (r *Reader) ReadHeader() (Header, error) {
	rec, err := r.object()
	if err != nil {
		return Header{}, err
	}
	v, ok, err := rec.Int("version_code")
	if err != nil || !ok {
		return Header{}, r.fail("header without an integer version_code", err)
	}
	return Header{Version: int(v)}, nil
}

// BeginArray consumes the opening bracket of the current member.
func (r *Reader) BeginArray() error {
	return r.delim('[')
}

// More reports whether the current array has another record.
func (r *Reader) More() bool {
	return r.dec.More()
}

// ReadRecord reads the next record of the current array.
func (r *Reader) ReadRecord() (Record, error) {
	r.record++
	return r.object()
}

func (r *Reader) object() (Record, error) {
	if err := r.delim('{'); err != nil {
		return nil, err
	}
	rec := make(Record)
	for r.dec.More() {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, r.fail("expected member name", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, r.fail(fmt.Sprintf("expected member name, found %v", tok), nil)
		}
		val, err := r.dec.Token()
		if err != nil {
			return nil, r.fail(fmt.Sprintf("member %q", key), err)
		}
		switch v := val.(type) {
		case nil:
		case string, json.Number, bool:
			rec[key] = v
		default:
			return nil, r.fail(fmt.Sprintf("member %q is not a scalar", key), nil)
		}
	}
	if err := r.delim('}'); err != nil {
		return nil, err
	}
	return rec, nil
}

// EndArray consumes the closing bracket of the current array.
func (r *Reader) EndArray() error {
	return r.delim(']')
}

// EndDocument consumes the closing brace and checks nothing follows it.
func (r *Reader) EndDocument() error {
	r.section, r.record = "", 0
	if err := r.delim('}'); err != nil {
		return err
	}
	if _, err := r.dec.Token(); !errors.Is(err, io.EOF) {
		return r.fail("trailing data after document", err)
	}
	return nil
}
