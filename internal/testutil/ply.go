package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column is a vertex property written by the fixture builders.
type Column struct {
	Name string
	Type string
}

// XYZ is the plain float position layout.
var XYZ = []Column{{"x", "float"}, {"y", "float"}, {"z", "float"}}

// XYZDouble is the double precision position layout.
var XYZDouble = []Column{{"x", "double"}, {"y", "double"}, {"z", "double"}}

// XYZColor is a typical scanner layout with normals and colors around the
// position.
var XYZColor = []Column{
	{"x", "float"}, {"y", "float"}, {"z", "float"},
	{"nx", "float"}, {"ny", "float"}, {"nz", "float"},
	{"red", "uchar"}, {"green", "uchar"}, {"blue", "uchar"},
}

// Header builds a PLY header declaring count vertex records with cols.
func Header(format string, count int, cols []Column, comments ...string) string {
	var sb strings.Builder
	sb.WriteString("ply\n")
	fmt.Fprintf(&sb, "format %s 1.0\n", format)
	for _, c := range comments {
		fmt.Fprintf(&sb, "comment %s\n", c)
	}
	fmt.Fprintf(&sb, "element vertex %d\n", count)
	for _, c := range cols {
		fmt.Fprintf(&sb, "property %s %s\n", c.Type, c.Name)
	}
	sb.WriteString("end_header\n")
	return sb.String()
}

// ASCII builds an ascii PLY file. Each row holds one value per column.
func ASCII(cols []Column, rows [][]float64) []byte {
	var sb strings.Builder
	sb.WriteString(Header("ascii", len(rows), cols))
	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// Binary builds a binary PLY file in the given byte order.
func Binary(order binary.AppendByteOrder, cols []Column, rows [][]float64) []byte {
	format := "binary_little_endian"
	if order == binary.BigEndian {
		format = "binary_big_endian"
	}
	buf := bytes.NewBufferString(Header(format, len(rows), cols))
	for _, row := range rows {
		buf.Write(Record(order, cols, row))
	}
	return buf.Bytes()
}

// Record encodes one binary record.
func Record(order binary.AppendByteOrder, cols []Column, row []float64) []byte {
	var out []byte
	for i, c := range cols {
		v := row[i]
		switch c.Type {
		case "char", "int8":
			out = append(out, byte(int8(v)))
		case "uchar", "uint8":
			out = append(out, byte(v))
		case "short", "int16":
			out = order.AppendUint16(out, uint16(int16(v)))
		case "ushort", "uint16":
			out = order.AppendUint16(out, uint16(v))
		case "int", "int32":
			out = order.AppendUint32(out, uint32(int32(v)))
		case "uint", "uint32":
			out = order.AppendUint32(out, uint32(v))
		case "int64":
			out = order.AppendUint64(out, uint64(int64(v)))
		case "uint64":
			out = order.AppendUint64(out, uint64(v))
		case "float", "float32":
			out = order.AppendUint32(out, math.Float32bits(float32(v)))
		case "double", "float64":
			out = order.AppendUint64(out, math.Float64bits(v))
		default:
			panic("testutil: unknown PLY type " + c.Type)
		}
	}
	return out
}

// Rows pads xyz triples with zeros up to width columns.
func Rows(width int, xyz ...[3]float64) [][]float64 {
	rows := make([][]float64, len(xyz))
	for i, p := range xyz {
		row := make([]float64, width)
		copy(row, p[:])
		rows[i] = row
	}
	return rows
}
