package tad

import (
	"fmt"
	"math"
)

const maxInt = int(^uint(0) >> 1)

// Array is a multidimensional array whose elements consist of a fixed number
// of components of one scalar type, together with global, per-component and
// per-dimension metadata.
//
// Data is stored row-major: the last dimension varies fastest, and the
// components of one element are stored next to each other. The array owns
// its buffer; shape and type are fixed once constructed.
type Array struct {
	dims           []int
	componentCount int
	componentType  Type
	elementSize    int
	elementCount   int
	dataSize       int

	global     TagList
	components []TagList
	dimensions []TagList

	data []byte
}

// NewArray allocates a zero-filled array with the given shape.
// A product of sizes that does not fit into an int is rejected.
func NewArray(dims []int, componentCount int, t Type) (*Array, error) {
	a, err := newArrayHeader(dims, componentCount, t)
	if err != nil {
		return nil, err
	}
	a.data = make([]byte, a.dataSize)
	return a, nil
}

// New allocates an array whose component type is backed by T.
func New[T Scalar](dims []int, componentCount int) (*Array, error) {
	return NewArray(dims, componentCount, TypeOf[T]())
}

// newArrayHeader validates the shape and computes the derived sizes
// without allocating the data buffer.
func newArrayHeader(dims []int, componentCount int, t Type) (*Array, error) {
	sz, err := computeSizes(dims, componentCount, t)
	if err != nil {
		return nil, err
	}
	return &Array{
		dims:           append([]int(nil), dims...),
		componentCount: componentCount,
		componentType:  t,
		elementSize:    sz.element,
		elementCount:   sz.elements,
		dataSize:       sz.data,
		components:     make([]TagList, componentCount),
		dimensions:     make([]TagList, len(dims)),
	}, nil
}

type sizes struct {
	element  int
	elements int
	data     int
}

// computeSizes validates a shape and returns its derived sizes.
func computeSizes(dims []int, componentCount int, t Type) (sizes, error) {
	if !t.Valid() {
		return sizes{}, fmt.Errorf("%w: code %d", ErrInvalidType, uint8(t))
	}
	if componentCount < 0 {
		return sizes{}, fmt.Errorf("%w: negative component count %d", ErrInvalidData, componentCount)
	}
	element, ok := mulInt(componentCount, t.Size())
	if !ok {
		return sizes{}, fmt.Errorf("%w: element size", ErrSizeOverflow)
	}
	elements := 0
	if len(dims) > 0 {
		elements = 1
	}
	for d, n := range dims {
		if n < 0 {
			return sizes{}, fmt.Errorf("%w: negative size %d in dimension %d", ErrInvalidData, n, d)
		}
		elements, ok = mulInt(elements, n)
		if !ok {
			return sizes{}, fmt.Errorf("%w: element count", ErrSizeOverflow)
		}
	}
	data, ok := mulInt(elements, element)
	if !ok {
		return sizes{}, fmt.Errorf("%w: data size", ErrSizeOverflow)
	}
	return sizes{element: element, elements: elements, data: data}, nil
}

func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > maxInt/b {
		return 0, false
	}
	return a * b, true
}

// DimensionCount returns the number of dimensions.
func (a *Array) DimensionCount() int { return len(a.dims) }

// Dimension returns the size of dimension d.
func (a *Array) Dimension(d int) int { return a.dims[d] }

// Dimensions returns a copy of the dimension sizes.
func (a *Array) Dimensions() []int { return append([]int(nil), a.dims...) }

// ComponentCount returns the number of components per element.
func (a *Array) ComponentCount() int { return a.componentCount }

// ComponentType returns the scalar type of the components.
func (a *Array) ComponentType() Type { return a.componentType }

// ComponentSize returns the size of one component in bytes.
func (a *Array) ComponentSize() int { return a.componentType.Size() }

// ElementSize returns the size of one element (all its components) in bytes.
func (a *Array) ElementSize() int { return a.elementSize }

// ElementCount returns the number of elements. A zero-dimensional array
// has no elements.
func (a *Array) ElementCount() int { return a.elementCount }

// DataSize returns the size of the data buffer in bytes.
func (a *Array) DataSize() int { return a.dataSize }

// Data returns the raw data buffer. Values use the host byte order.
func (a *Array) Data() []byte { return a.data }

// GlobalTags returns the tag list describing the array as a whole.
func (a *Array) GlobalTags() *TagList { return &a.global }

// ComponentTags returns the tag list of component c.
func (a *Array) ComponentTags(c int) *TagList { return &a.components[c] }

// DimensionTags returns the tag list of dimension d.
func (a *Array) DimensionTags(d int) *TagList { return &a.dimensions[d] }

// IsCompatible reports whether b has the same component type, component
// count and element count as a.
func (a *Array) IsCompatible(b *Array) bool {
	return a.componentType == b.componentType &&
		a.componentCount == b.componentCount &&
		a.elementCount == b.elementCount
}

// SameShape reports whether b has the same dimensions, component count and
// component type as a.
func (a *Array) SameShape(b *Array) bool {
	if a.componentType != b.componentType || a.componentCount != b.componentCount || len(a.dims) != len(b.dims) {
		return false
	}
	for d := range a.dims {
		if a.dims[d] != b.dims[d] {
			return false
		}
	}
	return true
}

// LinearIndex converts a multidimensional element index into a linear one.
// It panics if the index has the wrong length or is out of range.
func (a *Array) LinearIndex(index ...int) int {
	if len(index) != len(a.dims) {
		panic(fmt.Sprintf("tad: index has %d coordinates, array has %d dimensions", len(index), len(a.dims)))
	}
	linear := 0
	for d, i := range index {
		if i < 0 || i >= a.dims[d] {
			panic(fmt.Sprintf("tad: index %d out of range [0,%d) in dimension %d", i, a.dims[d], d))
		}
		linear = linear*a.dims[d] + i
	}
	return linear
}

// VectorIndex converts a linear element index into a multidimensional one.
func (a *Array) VectorIndex(linear int) []int {
	if linear < 0 || linear >= a.elementCount {
		panic(fmt.Sprintf("tad: element %d out of range [0,%d)", linear, a.elementCount))
	}
	index := make([]int, len(a.dims))
	for d := len(a.dims) - 1; d >= 0; d-- {
		index[d] = linear % a.dims[d]
		linear /= a.dims[d]
	}
	return index
}

// ElementOffset returns the byte offset of an element within the data.
func (a *Array) ElementOffset(element int) int {
	return element * a.elementSize
}

// ComponentOffset returns the byte offset of component c of an element.
func (a *Array) ComponentOffset(element, c int) int {
	return element*a.elementSize + c*a.componentType.Size()
}

// Clone returns a deep copy of a, including its metadata.
func (a *Array) Clone() *Array {
	out := &Array{
		dims:           append([]int(nil), a.dims...),
		componentCount: a.componentCount,
		componentType:  a.componentType,
		elementSize:    a.elementSize,
		elementCount:   a.elementCount,
		dataSize:       a.dataSize,
		global:         a.global.Clone(),
		components:     make([]TagList, len(a.components)),
		dimensions:     make([]TagList, len(a.dimensions)),
		data:           append(make([]byte, 0, len(a.data)), a.data...),
	}
	for i := range a.components {
		out.components[i] = a.components[i].Clone()
	}
	for i := range a.dimensions {
		out.dimensions[i] = a.dimensions[i].Clone()
	}
	return out
}

// Float64At returns component c of an element as float64. Complex values
// yield their real part.
func (a *Array) Float64At(element, c int) float64 {
	return real(a.Complex128At(element, c))
}

// Complex128At returns component c of an element as complex128.
func (a *Array) Complex128At(element, c int) complex128 {
	p := a.data[a.ComponentOffset(element, c):]
	switch a.componentType {
	case TypeInt8:
		return complex(float64(int8(p[0])), 0)
	case TypeUint8:
		return complex(float64(p[0]), 0)
	case TypeInt16:
		return complex(float64(int16(hostOrder.Uint16(p))), 0)
	case TypeUint16:
		return complex(float64(hostOrder.Uint16(p)), 0)
	case TypeInt32:
		return complex(float64(int32(hostOrder.Uint32(p))), 0)
	case TypeUint32:
		return complex(float64(hostOrder.Uint32(p)), 0)
	case TypeInt64:
		return complex(float64(int64(hostOrder.Uint64(p))), 0)
	case TypeUint64:
		return complex(float64(hostOrder.Uint64(p)), 0)
	case TypeFloat32:
		return complex(float64(math.Float32frombits(hostOrder.Uint32(p))), 0)
	case TypeFloat64:
		return complex(math.Float64frombits(hostOrder.Uint64(p)), 0)
	case TypeFloat16:
		return complex(float64(Float16(hostOrder.Uint16(p)).Float32()), 0)
	case TypeBFloat16:
		return complex(float64(BFloat16(hostOrder.Uint16(p)).Float32()), 0)
	case TypeComplex64:
		re := math.Float32frombits(hostOrder.Uint32(p))
		im := math.Float32frombits(hostOrder.Uint32(p[4:]))
		return complex(float64(re), float64(im))
	case TypeComplex128:
		return complex(math.Float64frombits(hostOrder.Uint64(p)), math.Float64frombits(hostOrder.Uint64(p[8:])))
	case TypeCInt16:
		return complex(float64(int16(hostOrder.Uint16(p))), float64(int16(hostOrder.Uint16(p[2:]))))
	case TypeCInt32:
		return complex(float64(int32(hostOrder.Uint32(p))), float64(int32(hostOrder.Uint32(p[4:]))))
	}
	return 0
}

// SetFloat64At stores v into component c of an element. Integer types
// round to nearest and saturate; NaN stores zero. Complex types get a zero
// imaginary part.
func (a *Array) SetFloat64At(element, c int, v float64) {
	a.SetComplex128At(element, c, complex(v, 0))
}

// SetComplex128At stores v into component c of an element. Real types keep
// only the real part.
func (a *Array) SetComplex128At(element, c int, v complex128) {
	p := a.data[a.ComponentOffset(element, c):]
	re, im := real(v), imag(v)
	switch a.componentType {
	case TypeInt8:
		p[0] = byte(int8(saturate(re, math.MinInt8, math.MaxInt8)))
	case TypeUint8:
		p[0] = uint8(saturate(re, 0, math.MaxUint8))
	case TypeInt16:
		hostOrder.PutUint16(p, uint16(int16(saturate(re, math.MinInt16, math.MaxInt16))))
	case TypeUint16:
		hostOrder.PutUint16(p, uint16(saturate(re, 0, math.MaxUint16)))
	case TypeInt32:
		hostOrder.PutUint32(p, uint32(int32(saturate(re, math.MinInt32, math.MaxInt32))))
	case TypeUint32:
		hostOrder.PutUint32(p, uint32(saturate(re, 0, math.MaxUint32)))
	case TypeInt64:
		hostOrder.PutUint64(p, uint64(saturateInt64(re)))
	case TypeUint64:
		hostOrder.PutUint64(p, saturateUint64(re))
	case TypeFloat32:
		hostOrder.PutUint32(p, math.Float32bits(float32(re)))
	case TypeFloat64:
		hostOrder.PutUint64(p, math.Float64bits(re))
	case TypeFloat16:
		hostOrder.PutUint16(p, uint16(Float16FromFloat32(float32(re))))
	case TypeBFloat16:
		hostOrder.PutUint16(p, uint16(BFloat16FromFloat32(float32(re))))
	case TypeComplex64:
		hostOrder.PutUint32(p, math.Float32bits(float32(re)))
		hostOrder.PutUint32(p[4:], math.Float32bits(float32(im)))
	case TypeComplex128:
		hostOrder.PutUint64(p, math.Float64bits(re))
		hostOrder.PutUint64(p[8:], math.Float64bits(im))
	case TypeCInt16:
		hostOrder.PutUint16(p, uint16(int16(saturate(re, math.MinInt16, math.MaxInt16))))
		hostOrder.PutUint16(p[2:], uint16(int16(saturate(im, math.MinInt16, math.MaxInt16))))
	case TypeCInt32:
		hostOrder.PutUint32(p, uint32(int32(saturate(re, math.MinInt32, math.MaxInt32))))
		hostOrder.PutUint32(p[4:], uint32(int32(saturate(im, math.MinInt32, math.MaxInt32))))
	}
}

// saturate rounds v and clamps it to [lo, hi]. The bounds must be exactly
// representable in int64.
func saturate(v, lo, hi float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return int64(v)
}

func saturateInt64(v float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	if v <= math.MinInt64 {
		return math.MinInt64
	}
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

func saturateUint64(v float64) uint64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	v = math.Round(v)
	if v >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(v)
}

// DataSizeOf returns the data size of an array with the given shape
// without allocating it.
func DataSizeOf(dims []int, componentCount int, t Type) (int, error) {
	sz, err := computeSizes(dims, componentCount, t)
	if err != nil {
		return 0, err
	}
	return sz.data, nil
}
