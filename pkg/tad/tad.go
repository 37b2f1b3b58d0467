// Package tad implements Tagged Array Data: multidimensional arrays of
// numeric components with key/value metadata at array, component and
// dimension scope, and the native TAD stream format that stores any number
// of such arrays back to back in one file.
//
// Native files use the host byte order for all multi-byte values. They are
// therefore only portable between hosts of the same endianness.
package tad
