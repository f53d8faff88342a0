package ply

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/icocloud/pkg/math"
)

// Decoder streams vertex positions from a PLY body.
//
// It is single pass: once Next returns io.EOF or an error, every later call
// returns the same result. Decoding again requires a fresh reader positioned
// at the header's DataOffset.
type Decoder struct {
	h     *Header
	r     *bufio.Reader
	order binary.ByteOrder
	buf   []byte

	read    int   // records emitted so far
	offset  int64 // absolute byte offset of the next binary record
	line    int   // 1-based file line of the next ascii row
	skipped bool
	err     error
}

// NewDecoder returns a decoder for the body that follows h in r.
// r must be positioned at h.DataOffset.
func NewDecoder(h *Header, r io.Reader) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, 1<<16)
	}
	d := &Decoder{
		h:      h,
		r:      br,
		order:  h.Format.ByteOrder(),
		offset: h.DataOffset,
		line:   h.Lines + 1,
	}
	if h.Format.IsBinary() {
		d.buf = make([]byte, h.Stride)
	}
	return d
}

// Header returns the header the decoder was created with.
func (d *Decoder) Header() *Header { return d.h }

// Read returns the number of records decoded so far.
func (d *Decoder) Read() int { return d.read }

// Remaining returns the number of declared records not yet decoded.
func (d *Decoder) Remaining() int { return d.h.Count - d.read }

// CheckBodySize fails fast when a binary body of bodySize bytes cannot hold
// every declared record, reporting the first record that would be cut short.
// When the vertex element is the last one stored, surplus bytes are rejected
// as well. Ascii bodies are not checked.
func (d *Decoder) CheckBodySize(bodySize int64) error {
	if !d.h.Format.IsBinary() {
		return nil
	}
	need := d.h.BodySize()
	switch {
	case bodySize < need:
		avail := bodySize - d.h.SkipBytes
		record := 0
		if avail > 0 && d.h.Stride > 0 {
			record = int(avail / int64(d.h.Stride))
		}
		d.err = &DecodeError{
			Record: record,
			Offset: d.h.VertexOffset() + int64(record)*int64(d.h.Stride),
			Err: fmt.Errorf("%w: body has %d bytes, %d declared records need %d",
				ErrTruncatedData, bodySize, d.h.Count, need),
		}
	case bodySize > need && d.h.VertexLast:
		d.err = &DecodeError{
			Record: d.h.Count,
			Offset: d.h.DataOffset + need,
			Err: fmt.Errorf("%w: body has %d bytes, %d declared records need %d",
				ErrRecordCountMismatch, bodySize, d.h.Count, need),
		}
	default:
		return nil
	}
	return d.err
}

// Next returns the next position, or io.EOF after the last declared record.
func (d *Decoder) Next() (math.Vec3, error) {
	if d.err != nil {
		return math.Vec3{}, d.err
	}
	if !d.skipped {
		if err := d.skipLeading(); err != nil {
			d.err = err
			return math.Vec3{}, err
		}
		d.skipped = true
	}
	if d.read >= d.h.Count {
		if d.h.VertexLast {
			if err := d.checkTrailing(); err != nil {
				d.err = err
				return math.Vec3{}, err
			}
		}
		d.err = io.EOF
		return math.Vec3{}, io.EOF
	}

	var p math.Vec3
	var err error
	if d.h.Format.IsBinary() {
		p, err = d.nextBinary()
	} else {
		p, err = d.nextASCII()
	}
	if err != nil {
		d.err = err
		return math.Vec3{}, err
	}
	d.read++
	return p, nil
}

// skipLeading discards the records of elements stored before the vertex
// element.
func (d *Decoder) skipLeading() error {
	if d.h.Format.IsBinary() {
		if d.h.SkipBytes == 0 {
			return nil
		}
		n, err := io.CopyN(io.Discard, d.r, d.h.SkipBytes)
		d.offset += n
		if err != nil {
			return d.binaryError(err)
		}
		return nil
	}

	for i := 0; i < d.h.SkipLines; i++ {
		if _, err := d.readLine(); err != nil {
			return d.asciiError(err)
		}
	}
	return nil
}

// checkTrailing fails when the body continues past the last declared
// record. Blank ascii lines are allowed.
func (d *Decoder) checkTrailing() error {
	if d.h.Format.IsBinary() {
		b, err := d.r.Peek(1)
		if len(b) > 0 {
			return &DecodeError{
				Record: d.read,
				Offset: d.offset,
				Err:    fmt.Errorf("%w: declared %d records, body continues", ErrRecordCountMismatch, d.h.Count),
			}
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return &DecodeError{Record: d.read, Offset: d.offset, Err: err}
		}
		return nil
	}

	for {
		line, err := d.readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return d.asciiError(err)
		}
		if strings.TrimSpace(line) != "" {
			return &DecodeError{
				Record: d.read,
				Line:   d.line - 1,
				Err:    fmt.Errorf("%w: declared %d records, found more", ErrRecordCountMismatch, d.h.Count),
			}
		}
	}
}

func (d *Decoder) nextBinary() (math.Vec3, error) {
	if _, err := io.ReadFull(d.r, d.buf); err != nil {
		return math.Vec3{}, d.binaryError(err)
	}
	d.offset += int64(d.h.Stride)

	var v [3]float64
	for axis, prop := range d.h.Position {
		v[axis] = prop.Type.decode(d.buf[prop.Offset:], d.order)
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func (d *Decoder) binaryError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &DecodeError{
			Record: d.read,
			Offset: d.offset,
			Err:    fmt.Errorf("%w: need %d bytes per record", ErrTruncatedData, d.h.Stride),
		}
	}
	return &DecodeError{Record: d.read, Offset: d.offset, Err: err}
}

func (d *Decoder) nextASCII() (math.Vec3, error) {
	line, err := d.readLine()
	if err != nil {
		return math.Vec3{}, d.asciiError(err)
	}
	lineNo := d.line - 1

	fields := strings.Fields(line)
	if len(fields) != len(d.h.Properties) {
		return math.Vec3{}, &DecodeError{
			Record: d.read,
			Line:   lineNo,
			Err:    fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRow, len(d.h.Properties), len(fields)),
		}
	}

	var v [3]float64
	for axis, idx := range d.h.PositionIndex {
		f, err := strconv.ParseFloat(fields[idx], 64)
		if err != nil {
			return math.Vec3{}, &DecodeError{
				Record: d.read,
				Line:   lineNo,
				Err:    fmt.Errorf("%w: field %q: %q is not a number", ErrMalformedRow, d.h.Properties[idx].Name, fields[idx]),
			}
		}
		v[axis] = f
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned normally; io.EOF means no line was left.
func (d *Decoder) readLine() (string, error) {
	raw, err := d.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && raw != "") {
		return "", err
	}
	d.line++
	d.offset += int64(len(raw))
	return strings.TrimRight(raw, "\r\n"), nil
}

func (d *Decoder) asciiError(err error) error {
	if errors.Is(err, io.EOF) {
		return &DecodeError{
			Record: d.read,
			Line:   d.line,
			Err:    fmt.Errorf("%w: declared %d records, body ended after %d", ErrRecordCountMismatch, d.h.Count, d.read),
		}
	}
	return &DecodeError{Record: d.read, Line: d.line, Err: err}
}

// NewReader parses the header at the start of r and returns a decoder for
// its vertex records.
func NewReader(r io.Reader) (*Decoder, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	h, err := ParseHeader(br)
	if err != nil {
		return nil, err
	}
	return NewDecoder(h, br), nil
}
