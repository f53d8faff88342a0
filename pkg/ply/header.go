package ply

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/icocloud/pkg/encoding"
)

const (
	headerMagic    = "ply"
	headerEnd      = "end_header"
	vertexElement  = "vertex"
	maxHeaderLines = 4096
)

// Property is a single declared property of an element.
type Property struct {
	Name string
	Type ScalarType

	// List properties carry a count type followed by Count items of Type.
	List      bool
	CountType ScalarType

	// Offset is the byte offset inside a binary record. It is only
	// meaningful for scalar properties of fixed-stride elements.
	Offset int
}

// Element is a declared element with its record count and properties.
type Element struct {
	Name       string
	Count      int
	Properties []Property
	Line       int
}

// Stride returns the binary record size, and false if the element has a
// list property and therefore no fixed stride.
func (e *Element) Stride() (int, bool) {
	n := 0
	for _, p := range e.Properties {
		if p.List {
			return 0, false
		}
		n += p.Type.Size()
	}
	return n, true
}

// Header describes a parsed PLY header and the layout of its vertex records.
type Header struct {
	Format   Format
	Version  string
	Elements []Element
	Comments []string
	ObjInfo  []string

	// Properties is the ordered property layout of the vertex element.
	Properties []Property
	// Count is the declared number of vertex records.
	Count int
	// Stride is the byte size of one binary vertex record.
	Stride int
	// Position holds the x, y and z properties in that order.
	Position [3]Property
	// PositionIndex holds the column of x, y and z within an ascii row.
	PositionIndex [3]int

	// DataOffset is the byte offset where the body begins.
	DataOffset int64
	// Lines is the number of header lines including end_header.
	Lines int
	// SkipBytes and SkipLines cover the elements stored before the vertex
	// element in binary and ascii bodies respectively.
	SkipBytes int64
	SkipLines int
	// VertexLast is set when no record follows the vertex element, so the
	// body must end with the last vertex record.
	VertexLast bool
}

// VertexOffset returns the absolute byte offset of the first vertex record
// in a binary body.
func (h *Header) VertexOffset() int64 {
	return h.DataOffset + h.SkipBytes
}

// BodySize returns the number of body bytes needed to hold every vertex
// record of a binary body, including skipped leading elements.
func (h *Header) BodySize() int64 {
	return h.SkipBytes + int64(h.Count)*int64(h.Stride)
}

// ParseHeader reads the header from r and leaves r positioned at the first
// body byte.
func ParseHeader(r *bufio.Reader) (*Header, error) {
	h := &Header{}
	current := -1 // index of the element being declared
	formatSeen := false
	done := false

	for !done {
		raw, err := r.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("reading header: %w", err)
			}
			if raw == "" {
				if h.Lines == 0 {
					return nil, &HeaderError{Err: ErrMissingMagic}
				}
				return nil, headerErrorf(h.Lines, ErrMalformedHeader, "missing %s", headerEnd)
			}
		}
		h.Lines++
		h.DataOffset += int64(len(raw))
		line := strings.TrimRight(raw, "\r\n")

		if h.Lines > maxHeaderLines {
			return nil, headerErrorf(h.Lines, ErrMalformedHeader, "header exceeds %d lines", maxHeaderLines)
		}
		if h.Lines == 1 {
			if strings.TrimSpace(line) != headerMagic {
				return nil, &HeaderError{Line: 1, Err: ErrMissingMagic}
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return nil, headerErrorf(h.Lines, ErrMalformedHeader, "format line needs a variant")
			}
			f, ok := parseFormat(fields[1])
			if !ok {
				return nil, headerErrorf(h.Lines, ErrUnsupportedFormat, "%q", fields[1])
			}
			h.Format = f
			if len(fields) > 2 {
				h.Version = fields[2]
			}
			formatSeen = true

		case "comment":
			h.Comments = append(h.Comments, headerText(raw, "comment"))

		case "obj_info":
			h.ObjInfo = append(h.ObjInfo, headerText(raw, "obj_info"))

		case "element":
			if len(fields) != 3 {
				return nil, headerErrorf(h.Lines, ErrMalformedHeader, "element line needs a name and count")
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, headerErrorf(h.Lines, ErrMalformedHeader, "invalid element count %q", fields[2])
			}
			h.Elements = append(h.Elements, Element{Name: fields[1], Count: count, Line: h.Lines})
			current = len(h.Elements) - 1

		case "property":
			if current < 0 {
				return nil, headerErrorf(h.Lines, ErrMalformedHeader, "property declared before any element")
			}
			prop, err := parseProperty(fields, h.Lines)
			if err != nil {
				return nil, err
			}
			h.Elements[current].Properties = append(h.Elements[current].Properties, prop)

		case headerEnd:
			done = true

		default:
			return nil, headerErrorf(h.Lines, ErrMalformedHeader, "unknown keyword %q", fields[0])
		}
	}

	if !formatSeen {
		return nil, headerErrorf(0, ErrMalformedHeader, "missing format line")
	}
	if err := h.resolveVertexLayout(); err != nil {
		return nil, err
	}
	return h, nil
}

func parseProperty(fields []string, line int) (Property, error) {
	if len(fields) >= 2 && fields[1] == "list" {
		if len(fields) != 5 {
			return Property{}, headerErrorf(line, ErrMalformedHeader, "list property needs count type, item type and name")
		}
		ct, ok := ParseScalarType(fields[2])
		if !ok {
			return Property{}, headerErrorf(line, ErrUnsupportedPropertyType, "%q", fields[2])
		}
		it, ok := ParseScalarType(fields[3])
		if !ok {
			return Property{}, headerErrorf(line, ErrUnsupportedPropertyType, "%q", fields[3])
		}
		return Property{Name: fields[4], Type: it, List: true, CountType: ct}, nil
	}

	if len(fields) != 3 {
		return Property{}, headerErrorf(line, ErrMalformedHeader, "property line needs a type and name")
	}
	t, ok := ParseScalarType(fields[1])
	if !ok {
		return Property{}, headerErrorf(line, ErrUnsupportedPropertyType, "%q", fields[1])
	}
	return Property{Name: fields[2], Type: t}, nil
}

// resolveVertexLayout locates the vertex element, computes offsets and
// stride, and finds the position properties.
func (h *Header) resolveVertexLayout() error {
	vi := -1
	for i := range h.Elements {
		if strings.EqualFold(h.Elements[i].Name, vertexElement) {
			vi = i
			break
		}
	}
	if vi < 0 {
		return &HeaderError{Err: ErrMissingVertexElement}
	}

	// Leading elements must have a fixed layout to be skipped.
	for i := 0; i < vi; i++ {
		el := &h.Elements[i]
		stride, ok := el.Stride()
		if !ok {
			return headerErrorf(el.Line, ErrUnsupportedPropertyType,
				"list property in element %q stored before vertex data", el.Name)
		}
		h.SkipBytes += int64(stride) * int64(el.Count)
		h.SkipLines += el.Count
	}

	h.VertexLast = true
	for _, el := range h.Elements[vi+1:] {
		if el.Count > 0 {
			h.VertexLast = false
			break
		}
	}

	vertex := &h.Elements[vi]
	offset := 0
	for i := range vertex.Properties {
		p := &vertex.Properties[i]
		if p.List {
			return headerErrorf(vertex.Line, ErrUnsupportedPropertyType,
				"list property %q in vertex element", p.Name)
		}
		p.Offset = offset
		offset += p.Type.Size()
	}
	h.Stride = offset
	h.Count = vertex.Count
	h.Properties = vertex.Properties

	for axis, name := range [3]string{"x", "y", "z"} {
		found := false
		for i, p := range vertex.Properties {
			if strings.EqualFold(p.Name, name) {
				h.Position[axis] = p
				h.PositionIndex[axis] = i
				found = true
				break
			}
		}
		if !found {
			return headerErrorf(vertex.Line, ErrMissingPositionField, "%q", name)
		}
	}
	return nil
}

// headerText returns the remainder of a header line after its keyword,
// decoded to UTF-8.
func headerText(raw, keyword string) string {
	raw = strings.TrimRight(raw, "\r\n")
	raw = strings.TrimLeft(raw, " \t")
	raw = strings.TrimPrefix(raw, keyword)
	return encoding.HeaderTextToUTF8([]byte(strings.TrimSpace(raw)))
}
