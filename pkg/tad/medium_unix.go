//go:build unix

package tad

import (
	"os"

	"golang.org/x/sys/unix"
)

// SeekableFile reports whether f is backed by a medium that supports random
// access. Pipes, sockets and character devices may accept a seek on some
// systems without actually repositioning, so only regular files and block
// devices qualify.
func SeekableFile(f *os.File) bool {
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return false
	}
	switch st.Mode & unix.S_IFMT {
	case unix.S_IFREG, unix.S_IFBLK:
		return true
	}
	return false
}
