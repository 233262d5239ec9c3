package common

import "unsafe"

// SliceToBytes converts any slice to a byte slice for buffer transfer and
// GPU texture uploads. Uses unsafe pointer operations to create a view into
// the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// BytesToSlice reinterprets a byte slice as a slice of T, the receiving-side
// counterpart of SliceToBytes. The byte length must be a multiple of T's
// size; trailing bytes are ignored.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source byte slice
//
// Returns:
//   - []T: typed view of the input bytes, or nil if input is empty
func BytesToSlice[T any](data []byte) []T {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), len(data)/size)
}
