// Package ply reads point samples from PLY containers.
//
// A PLY file is a textual header terminated by "end_header" followed by a
// body of ascii rows or fixed-stride binary records. Only the vertex element
// is decoded; its x, y and z properties become positions and every other
// property is skipped.
package ply

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Format is the body encoding declared by the header.
type Format int

const (
	FormatASCII Format = iota
	FormatBinaryLittleEndian
	FormatBinaryBigEndian
)

// String returns the header keyword for the format.
func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinaryLittleEndian:
		return "binary_little_endian"
	case FormatBinaryBigEndian:
		return "binary_big_endian"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// IsBinary returns true for both binary variants.
func (f Format) IsBinary() bool {
	return f == FormatBinaryLittleEndian || f == FormatBinaryBigEndian
}

// ByteOrder returns the byte order of a binary body, or nil for ascii.
func (f Format) ByteOrder() binary.ByteOrder {
	switch f {
	case FormatBinaryLittleEndian:
		return binary.LittleEndian
	case FormatBinaryBigEndian:
		return binary.BigEndian
	default:
		return nil
	}
}

func parseFormat(s string) (Format, bool) {
	switch s {
	case "ascii":
		return FormatASCII, true
	case "binary_little_endian":
		return FormatBinaryLittleEndian, true
	case "binary_big_endian":
		return FormatBinaryBigEndian, true
	}
	return 0, false
}

// ScalarType is a PLY scalar property type.
type ScalarType int

const (
	Int8 ScalarType = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
)

var scalarNames = map[string]ScalarType{
	"char": Int8, "int8": Int8,
	"uchar": Uint8, "uint8": Uint8,
	"short": Int16, "int16": Int16,
	"ushort": Uint16, "uint16": Uint16,
	"int": Int32, "int32": Int32,
	"uint": Uint32, "uint32": Uint32,
	"int64": Int64, "long": Int64,
	"uint64": Uint64, "ulong": Uint64,
	"float": Float32, "float32": Float32,
	"double": Float64, "float64": Float64,
}

// ParseScalarType resolves a header type name, including the sized aliases.
func ParseScalarType(name string) (ScalarType, bool) {
	t, ok := scalarNames[strings.ToLower(name)]
	return t, ok
}

// Size returns the width of the type in bytes.
func (t ScalarType) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// String returns the canonical header name.
func (t ScalarType) String() string {
	switch t {
	case Int8:
		return "char"
	case Uint8:
		return "uchar"
	case Int16:
		return "short"
	case Uint16:
		return "ushort"
	case Int32:
		return "int"
	case Uint32:
		return "uint"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Float32:
		return "float"
	case Float64:
		return "double"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// decode reads one value of type t from b using order.
// b must hold at least t.Size() bytes.
func (t ScalarType) decode(b []byte, order binary.ByteOrder) float64 {
	switch t {
	case Int8:
		return float64(int8(b[0]))
	case Uint8:
		return float64(b[0])
	case Int16:
		return float64(int16(order.Uint16(b)))
	case Uint16:
		return float64(order.Uint16(b))
	case Int32:
		return float64(int32(order.Uint32(b)))
	case Uint32:
		return float64(order.Uint32(b))
	case Int64:
		return float64(int64(order.Uint64(b)))
	case Uint64:
		return float64(order.Uint64(b))
	case Float32:
		return float64(math.Float32frombits(order.Uint32(b)))
	case Float64:
		return math.Float64frombits(order.Uint64(b))
	default:
		return 0
	}
}
