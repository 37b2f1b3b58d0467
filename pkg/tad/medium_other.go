//go:build !unix

package tad

import "os"

// SeekableFile reports whether f is a regular file.
func SeekableFile(f *os.File) bool {
	st, err := f.Stat()
	return err == nil && st.Mode().IsRegular()
}
