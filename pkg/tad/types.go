package tad

import (
	"fmt"
	"math"
)

// Type identifies the scalar kind shared by all components of an array.
// The numeric values are the on-disk type codes; keep them stable forever.
type Type uint8

const (
	TypeInt8 Type = iota
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeFloat16
	TypeBFloat16
	TypeComplex64
	TypeComplex128
	TypeCInt16
	TypeCInt32
)

// maxTypeCode is the largest valid on-disk type code.
const maxTypeCode = 15

var typeNames = [...]string{
	TypeInt8:       "int8",
	TypeUint8:      "uint8",
	TypeInt16:      "int16",
	TypeUint16:     "uint16",
	TypeInt32:      "int32",
	TypeUint32:     "uint32",
	TypeInt64:      "int64",
	TypeUint64:     "uint64",
	TypeFloat32:    "float32",
	TypeFloat64:    "float64",
	TypeFloat16:    "float16",
	TypeBFloat16:   "bfloat16",
	TypeComplex64:  "complex64",
	TypeComplex128: "complex128",
	TypeCInt16:     "cint16",
	TypeCInt32:     "cint32",
}

var typeSizes = [...]int{
	TypeInt8:       1,
	TypeUint8:      1,
	TypeInt16:      2,
	TypeUint16:     2,
	TypeInt32:      4,
	TypeUint32:     4,
	TypeInt64:      8,
	TypeUint64:     8,
	TypeFloat32:    4,
	TypeFloat64:    8,
	TypeFloat16:    2,
	TypeBFloat16:   2,
	TypeComplex64:  8,
	TypeComplex128: 16,
	TypeCInt16:     4,
	TypeCInt32:     8,
}

// Valid reports whether t is one of the defined type codes.
func (t Type) Valid() bool {
	return t <= maxTypeCode
}

// Size returns the size of one component in bytes, or 0 for an invalid type.
func (t Type) Size() int {
	if !t.Valid() {
		return 0
	}
	return typeSizes[t]
}

// IsComplex reports whether values of t have a real and an imaginary part.
func (t Type) IsComplex() bool {
	switch t {
	case TypeComplex64, TypeComplex128, TypeCInt16, TypeCInt32:
		return true
	}
	return false
}

// IsFloat reports whether t is a real floating point type.
func (t Type) IsFloat() bool {
	switch t {
	case TypeFloat32, TypeFloat64, TypeFloat16, TypeBFloat16:
		return true
	}
	return false
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
	return typeNames[t]
}

// ParseType returns the type with the given name.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// Float16 is an IEEE 754 binary16 value stored as its bit pattern.
type Float16 uint16

// Float32 converts h to float32.
func (h Float16) Float32() float32 {
	sign := uint32(h>>15) & 0x1
	exp := uint32(h>>10) & 0x1F
	frac := uint32(h & 0x3FF)
	var f uint32
	switch exp {
	case 0:
		if frac == 0 {
			f = sign << 31
		} else {
			e := uint32(127 - 15 + 1)
			for (frac & 0x400) == 0 {
				frac <<= 1
				e--
			}
			frac &= 0x3FF
			f = (sign << 31) | (e << 23) | (frac << 13)
		}
	case 0x1F:
		f = (sign << 31) | 0x7F800000 | (frac << 13)
	default:
		e := exp + (127 - 15)
		f = (sign << 31) | (e << 23) | (frac << 13)
	}
	return math.Float32frombits(f)
}

// Float16FromFloat32 rounds f to the nearest binary16 value (ties to even).
func Float16FromFloat32(f float32) Float16 {
	u := math.Float32bits(f)
	sign := uint16((u >> 16) & 0x8000)
	exp := int((u >> 23) & 0xFF)
	frac := u & 0x7FFFFF

	switch exp {
	case 0xFF:
		if frac != 0 {
			return Float16(sign | 0x7E00)
		}
		return Float16(sign | 0x7C00)
	case 0:
		return Float16(sign)
	}

	e := exp - 127 + 15
	if e >= 31 {
		return Float16(sign | 0x7C00)
	}
	if e <= 0 {
		if e < -10 {
			return Float16(sign)
		}
		m := frac | 0x800000
		shift := uint32(14 - e)
		round := uint32(1) << (shift - 1)
		m = m + round - 1 + ((m >> shift) & 1)
		return Float16(sign | uint16(m>>shift))
	}

	m := frac + 0x0FFF + ((frac >> 13) & 1)
	if (m & 0x800000) != 0 {
		m = 0
		e++
		if e >= 31 {
			return Float16(sign | 0x7C00)
		}
	}
	return Float16(sign | uint16(e<<10) | uint16(m>>13))
}

// BFloat16 is a brain floating point value stored as its bit pattern.
type BFloat16 uint16

// Float32 converts b to float32.
func (b BFloat16) Float32() float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// BFloat16FromFloat32 rounds f to bfloat16 (ties to even).
func BFloat16FromFloat32(f float32) BFloat16 {
	u := math.Float32bits(f)
	if u&0x7F800000 == 0x7F800000 && u&0x7FFFFF != 0 {
		return BFloat16(u>>16 | 0x40)
	}
	rnd := uint32(0x7FFF + ((u >> 16) & 1))
	return BFloat16((u + rnd) >> 16)
}

// CInt16 is a complex value with int16 parts.
type CInt16 struct {
	Re, Im int16
}

// CInt32 is a complex value with int32 parts.
type CInt32 struct {
	Re, Im int32
}

// Scalar lists the Go element types that back a TAD type.
type Scalar interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 |
		float32 | float64 | complex64 | complex128 |
		Float16 | BFloat16 | CInt16 | CInt32
}

// TypeOf returns the TAD type backed by the Go type T.
func TypeOf[T Scalar]() Type {
	var zero T
	switch any(zero).(type) {
	case int8:
		return TypeInt8
	case uint8:
		return TypeUint8
	case int16:
		return TypeInt16
	case uint16:
		return TypeUint16
	case int32:
		return TypeInt32
	case uint32:
		return TypeUint32
	case int64:
		return TypeInt64
	case uint64:
		return TypeUint64
	case float32:
		return TypeFloat32
	case float64:
		return TypeFloat64
	case Float16:
		return TypeFloat16
	case BFloat16:
		return TypeBFloat16
	case complex64:
		return TypeComplex64
	case complex128:
		return TypeComplex128
	case CInt16:
		return TypeCInt16
	case CInt32:
		return TypeCInt32
	}
	panic(fmt.Sprintf("tad: no component type for %T", zero))
}
