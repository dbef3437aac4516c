// Package output serializes collected resources into the tagged,
// line-delimited text format the monitoring pipeline ingests.
package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Writer emits tagged section blocks. Each block is a header line
// `<<<redfish_<name>:sep(0)>>>` followed by one record per line. The
// ingesting check plugins parse each line as a Python literal, so records
// are re-encoded with None/True/False in place of JSON's null and
// booleans, with object keys sorted for deterministic output.
type Writer struct {
	w *bufio.Writer
}

// NewWriter -.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Section writes one tagged block. Empty result sets produce no block.
func (w *Writer) Section(name string, records ...[]byte) error {
	if len(records) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w.w, "<<<redfish_%s:sep(0)>>>\n", strings.ToLower(name)); err != nil {
		return fmt.Errorf("output - Section - header %s: %w", name, err)
	}

	for _, record := range records {
		if err := w.writeRecord(record); err != nil {
			return fmt.Errorf("output - Section - record %s: %w", name, err)
		}
	}

	return nil
}

func (w *Writer) writeRecord(record []byte) error {
	dec := json.NewDecoder(bytes.NewReader(record))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return err
	}

	var line bytes.Buffer

	writeLiteral(&line, value)

	if _, err := w.w.Write(line.Bytes()); err != nil {
		return err
	}

	return w.w.WriteByte('\n')
}

// writeLiteral renders a decoded record so the line is valid both as a
// Python literal and, absent nulls and booleans, as JSON.
func writeLiteral(buf *bytes.Buffer, value interface{}) {
	switch v := value.(type) {
	case nil:
		buf.WriteString("None")
	case bool:
		if v {
			buf.WriteString("True")
		} else {
			buf.WriteString("False")
		}
	case json.Number:
		buf.WriteString(v.String())
	case string:
		buf.WriteString(strconv.Quote(v))
	case []interface{}:
		buf.WriteByte('[')

		for i, elem := range v {
			if i > 0 {
				buf.WriteByte(',')
			}

			writeLiteral(buf, elem)
		}

		buf.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		buf.WriteByte('{')

		for i, key := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}

			buf.WriteString(strconv.Quote(key))
			buf.WriteByte(':')
			writeLiteral(buf, v[key])
		}

		buf.WriteByte('}')
	}
}

// Flush drains the buffer to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
