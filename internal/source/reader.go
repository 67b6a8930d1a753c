// Package source reads zones from cosmogony exports.
//
// Supported layouts are the regular cosmogony document ({"zones": [...], ...}),
// a bare array of zones and JSON lines with one zone per line. Any of them may
// be gzip compressed. The input is streamed: only one zone is held in memory
// at a time.
package source

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cosmogony-cities/internal/domain"
)

// Format is the layout of the zones in the input.
type Format int

const (
	// FormatJSON is a cosmogony document or a bare array of zones.
	FormatJSON Format = iota
	// FormatJSONL is one zone per line.
	FormatJSONL
)

const readBufferSize = 1 << 20

// DetectFormat guesses the layout and compression from the file name.
func DetectFormat(path string) (format Format, gzipped bool) {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, ".gz") {
		gzipped = true
		name = strings.TrimSuffix(name, ".gz")
	}
	switch filepath.Ext(name) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, gzipped
	default:
		return FormatJSON, gzipped
	}
}

// Reader yields zones one by one.
type Reader struct {
	dec     *json.Decoder
	lines   *bufio.Reader
	format  Format
	closers []io.Closer

	started bool
	done    bool
	index   int
}

// Open opens a cosmogony export on disk.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	format, gzipped := DetectFormat(path)

	var in io.Reader = bufio.NewReaderSize(f, readBufferSize)
	closers := []io.Closer{f}
	if gzipped {
		zr, err := gzip.NewReader(in)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip input %s: %w", path, err)
		}
		in = zr
		closers = append([]io.Closer{zr}, closers...)
	}

	r := NewReader(in, format)
	r.closers = closers
	return r, nil
}

// NewReader reads zones from in. Closing the returned reader does not close in.
func NewReader(in io.Reader, format Format) *Reader {
	if format == FormatJSONL {
		// one zone per line, decoded independently
		return &Reader{
			lines:  bufio.NewReaderSize(in, readBufferSize),
			format: format,
		}
	}
	return &Reader{
		dec:    json.NewDecoder(in),
		format: format,
	}
}

// Next returns the next zone. It returns io.EOF after the last zone.
// A zone that cannot be mapped is reported as a *DecodeError; in JSON lines input
// this includes a line that is not valid JSON. The reader stays usable and the
// caller may skip it. Any other error is final.
func (r *Reader) Next() (domain.Zone, error) {
	raw, err := r.nextRaw()
	if err != nil {
		return domain.Zone{}, err
	}

	idx := r.index
	r.index++

	zone, err := decodeZone(raw)
	if err != nil {
		return domain.Zone{}, &DecodeError{Index: idx, Err: err}
	}
	return zone, nil
}

// Close releases the underlying file, if the reader owns one.
func (r *Reader) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

func (r *Reader) nextRaw() (json.RawMessage, error) {
	if r.done {
		return nil, io.EOF
	}

	if r.format == FormatJSONL {
		return r.nextLine()
	}

	if !r.started {
		if err := r.seekZones(); err != nil {
			return nil, err
		}
		r.started = true
	}

	if !r.dec.More() {
		// closing bracket of the zones array
		if _, err := r.dec.Token(); err != nil {
			return nil, fmt.Errorf("read end of zones: %w", err)
		}
		r.done = true
		return nil, io.EOF
	}

	var raw json.RawMessage
	if err := r.dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("read zone %d: %w", r.index, err)
	}
	return raw, nil
}

// nextLine returns the next non-blank line. A final line without a newline is kept.
func (r *Reader) nextLine() (json.RawMessage, error) {
	for {
		line, err := r.lines.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read zone %d: %w", r.index, err)
		}
		atEOF := err != nil

		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			if atEOF {
				r.done = true
			}
			return json.RawMessage(line), nil
		}
		if atEOF {
			r.done = true
			return nil, io.EOF
		}
	}
}

// seekZones positions the decoder inside the zones array.
func (r *Reader) seekZones() error {
	tok, err := r.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("read input: empty document")
		}
		return fmt.Errorf("read input: %w", err)
	}

	switch tok {
	case json.Delim('['):
		return nil
	case json.Delim('{'):
	default:
		return fmt.Errorf("read input: unexpected token %v at document start", tok)
	}

	for r.dec.More() {
		keyTok, err := r.dec.Token()
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		key, _ := keyTok.(string)

		if key != "zones" {
			var skip json.RawMessage
			if err := r.dec.Decode(&skip); err != nil {
				return fmt.Errorf("read input field %q: %w", key, err)
			}
			continue
		}

		tok, err := r.dec.Token()
		if err != nil {
			return fmt.Errorf("read zones: %w", err)
		}
		if tok != json.Delim('[') {
			return fmt.Errorf("read zones: expected array, got %v", tok)
		}
		return nil
	}

	return errors.New("read input: no zones array in document")
}
