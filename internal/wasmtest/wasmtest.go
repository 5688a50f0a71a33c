// Package wasmtest assembles small WebAssembly binaries for tests: typed
// imports, one optional memory, data segments and straight-line function
// bodies.
package wasmtest

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ValueType is a wasm number type.
type ValueType byte

const (
	I32 ValueType = 0x7f
	I64 ValueType = 0x7e
)

// FuncType is a function signature.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

func (t FuncType) key() string {
	return fmt.Sprintf("%x>%x", t.Params, t.Results)
}

// Import is an imported function.
type Import struct {
	Module string
	Name   string
	Type   FuncType
}

// Func is a defined function. Body holds the instructions without the
// final end opcode. A non-empty Export name exports it.
type Func struct {
	Export string
	Type   FuncType
	Body   []byte
}

// Segment is an active data segment placed at Offset.
type Segment struct {
	Offset int32
	Data   []byte
}

// Module describes a binary. Function indices count imports first.
type Module struct {
	Imports []Import
	Funcs   []Func
	// MemoryPages is the initial memory size; zero means no memory.
	MemoryPages uint32
	// MemoryExport names the memory export; empty keeps it private.
	MemoryExport string
	Data         []Segment
}

// Func returns the index of the named import, panicking when absent.
func (m *Module) Func(name string) uint32 {
	for i, imp := range m.Imports {
		if imp.Name == name {
			return uint32(i)
		}
	}
	panic("wasmtest: no import " + name)
}

const (
	sectionType     = 1
	sectionImport   = 2
	sectionFunction = 3
	sectionMemory   = 5
	sectionExport   = 7
	sectionCode     = 10
	sectionData     = 11

	externFunc   = 0x00
	externMemory = 0x02
)

// Bytes encodes the module.
func (m *Module) Bytes() []byte {
	var types []FuncType
	typeIndex := map[string]uint32{}
	idx := func(t FuncType) uint32 {
		if i, ok := typeIndex[t.key()]; ok {
			return i
		}
		typeIndex[t.key()] = uint32(len(types))
		types = append(types, t)
		return uint32(len(types) - 1)
	}
	importTypes := make([]uint32, len(m.Imports))
	for i, imp := range m.Imports {
		importTypes[i] = idx(imp.Type)
	}
	funcTypes := make([]uint32, len(m.Funcs))
	for i, f := range m.Funcs {
		funcTypes[i] = idx(f.Type)
	}

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	var sec []byte
	sec = uleb(sec, uint64(len(types)))
	for _, t := range types {
		sec = append(sec, 0x60)
		sec = valueTypes(sec, t.Params)
		sec = valueTypes(sec, t.Results)
	}
	out = section(out, sectionType, sec)

	if len(m.Imports) > 0 {
		sec = uleb(nil, uint64(len(m.Imports)))
		for i, imp := range m.Imports {
			sec = name(sec, imp.Module)
			sec = name(sec, imp.Name)
			sec = append(sec, externFunc)
			sec = uleb(sec, uint64(importTypes[i]))
		}
		out = section(out, sectionImport, sec)
	}

	sec = uleb(nil, uint64(len(m.Funcs)))
	for _, t := range funcTypes {
		sec = uleb(sec, uint64(t))
	}
	out = section(out, sectionFunction, sec)

	if m.MemoryPages > 0 {
		sec = uleb(nil, 1)
		sec = append(sec, 0x00)
		sec = uleb(sec, uint64(m.MemoryPages))
		out = section(out, sectionMemory, sec)
	}

	var exports [][]byte
	for i, f := range m.Funcs {
		if f.Export == "" {
			continue
		}
		e := name(nil, f.Export)
		e = append(e, externFunc)
		exports = append(exports, uleb(e, uint64(len(m.Imports)+i)))
	}
	if m.MemoryPages > 0 && m.MemoryExport != "" {
		e := name(nil, m.MemoryExport)
		exports = append(exports, append(e, externMemory, 0x00))
	}
	sec = uleb(nil, uint64(len(exports)))
	out = section(out, sectionExport, append(sec, bytes.Join(exports, nil)...))

	sec = uleb(nil, uint64(len(m.Funcs)))
	for _, f := range m.Funcs {
		body := append([]byte{0x00}, f.Body...)
		body = append(body, opEnd)
		sec = uleb(sec, uint64(len(body)))
		sec = append(sec, body...)
	}
	out = section(out, sectionCode, sec)

	if len(m.Data) > 0 {
		sec = uleb(nil, uint64(len(m.Data)))
		for _, d := range m.Data {
			sec = append(sec, 0x00)
			sec = append(sec, I32Const(d.Offset)...)
			sec = append(sec, opEnd)
			sec = uleb(sec, uint64(len(d.Data)))
			sec = append(sec, d.Data...)
		}
		out = section(out, sectionData, sec)
	}
	return out
}

func section(out []byte, id byte, body []byte) []byte {
	out = append(out, id)
	out = uleb(out, uint64(len(body)))
	return append(out, body...)
}

func name(out []byte, s string) []byte {
	out = uleb(out, uint64(len(s)))
	return append(out, s...)
}

func valueTypes(out []byte, vs []ValueType) []byte {
	out = uleb(out, uint64(len(vs)))
	for _, v := range vs {
		out = append(out, byte(v))
	}
	return out
}

func uleb(out []byte, v uint64) []byte {
	return binary.AppendUvarint(out, v)
}

func sleb(out []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

const (
	opUnreachable = 0x00
	opEnd         = 0x0b
	opCall        = 0x10
	opDrop        = 0x1a
	opLocalGet    = 0x20
	opI32Load     = 0x28
	opI64Load     = 0x29
	opI32Const    = 0x41
	opI64Const    = 0x42
)

// Code concatenates instructions.
func Code(parts ...[]byte) []byte { return bytes.Join(parts, nil) }

func I32Const(v int32) []byte { return sleb([]byte{opI32Const}, int64(v)) }

func I64Const(v int64) []byte { return sleb([]byte{opI64Const}, v) }

func Call(fn uint32) []byte { return uleb([]byte{opCall}, uint64(fn)) }

func LocalGet(i uint32) []byte { return uleb([]byte{opLocalGet}, uint64(i)) }

// I32Load loads from the address on the stack plus offset.
func I32Load(offset uint32) []byte { return uleb([]byte{opI32Load, 0x02}, uint64(offset)) }

// I64Load loads from the address on the stack plus offset.
func I64Load(offset uint32) []byte { return uleb([]byte{opI64Load, 0x03}, uint64(offset)) }

func Drop() []byte { return []byte{opDrop} }

func Unreachable() []byte { return []byte{opUnreachable} }
