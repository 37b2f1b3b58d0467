package tad

import (
	"fmt"
	"unsafe"
)

// View returns the data of a as a slice of T sharing its memory. T must
// back the component type of a. Each element occupies ComponentCount
// consecutive values.
func View[T Scalar](a *Array) ([]T, error) {
	if t := TypeOf[T](); t != a.componentType {
		return nil, fmt.Errorf("%w: view as %s of %s array", ErrShapeMismatch, t, a.componentType)
	}
	if len(a.data) == 0 {
		return []T{}, nil
	}
	var zero T
	p := unsafe.Pointer(&a.data[0])
	if uintptr(p)%unsafe.Alignof(zero) != 0 {
		return nil, fmt.Errorf("%w: data buffer is not aligned for %s", ErrUnsupportedFeature, a.componentType)
	}
	return unsafe.Slice((*T)(p), len(a.data)/int(unsafe.Sizeof(zero))), nil
}

// FromSlice allocates an array and copies values into it. len(values) must
// equal the element count times componentCount.
func FromSlice[T Scalar](dims []int, componentCount int, values []T) (*Array, error) {
	a, err := New[T](dims, componentCount)
	if err != nil {
		return nil, err
	}
	if want := a.elementCount * componentCount; len(values) != want {
		return nil, fmt.Errorf("%w: %d values for %d components", ErrShapeMismatch, len(values), want)
	}
	if len(values) == 0 {
		return a, nil
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), a.dataSize)
	copy(a.data, src)
	return a, nil
}
