package snapshot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strconv"
)

// Writer produces a document with one record per line:
//
//	{
//	"header":{"version_code":2},
//	"currencies":[
//	{"decimals":2,"iso":"EUR",...},
//	{"decimals":0,"iso":"JPY",...}
//	],
//	"wallets":[]
//	}
//
// The first error is sticky: later calls return it without writing.
type Writer struct {
	w        *bufio.Writer
	buf      bytes.Buffer
	enc      *json.Encoder
	err      error
	members  int
	elements int
}

// NewWriter returns a Writer over w.
func NewWriter(w io.Writer) *Writer {
	sw := &Writer{w: bufio.NewWriter(w)}
	sw.enc = json.NewEncoder(&sw.buf)
	sw.enc.SetEscapeHTML(false)
	return sw
}

func (w *Writer) write(s string) error {
	if w.err != nil {
		return w.err
	}
	if _, err := w.w.WriteString(s); err != nil {
		w.err = &IOError{Op: "write", Err: err}
	}
	return w.err
}

// BeginDocument writes the opening brace.
func (w *Writer) BeginDocument() error {
	w.members = 0
	return w.write("{")
}

// WriteName starts a new document member.
func (w *Writer) WriteName(name string) error {
	sep := "\n"
	if w.members > 0 {
		sep = ",\n"
	}
	w.members++
	return w.write(sep + strconv.Quote(name) + ":")
}

// WriteHeader writes the header object after WriteName(HeaderName).
func (w *Writer) WriteHeader(h Header) error {
	return w.object(Record{"version_code": h.Version})
}

// BeginArray opens the array of the current member.
func (w *Writer) BeginArray() error {
	w.elements = 0
	return w.write("[")
}

// WriteRecord appends one record to the current array.
func (w *Writer) WriteRecord(rec Record) error {
	sep := "\n"
	if w.elements > 0 {
		sep = ",\n"
	}
	w.elements++
	if err := w.write(sep); err != nil {
		return err
	}
	return w.object(rec)
}

func (w *Writer) object(rec Record) error {
	if w.err != nil {
		return w.err
	}
	w.buf.Reset()
	if err := w.enc.Encode(rec); err != nil {
		w.err = &FormatError{Reason: "record cannot be encoded", Err: err}
		return w.err
	}
	return w.write(string(bytes.TrimSuffix(w.buf.Bytes(), []byte("\n"))))
}

// EndArray closes the current array.
func (w *Writer) EndArray() error {
	if w.elements == 0 {
		return w.write("]")
	}
	return w.write("\n]")
}

// EndDocument writes the closing brace and flushes.
func (w *Writer) EndDocument() error {
	if err := w.write("\n}\n"); err != nil {
		return err
	}
	return w.Flush()
}

// Flush writes buffered data to the underlying stream.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.w.Flush(); err != nil {
		w.err = &IOError{Op: "flush", Err: err}
	}
	return w.err
}
