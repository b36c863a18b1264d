//go:build linux || darwin

package volumes

import "golang.org/x/sys/unix"

func freeBytes(path string) uint64 {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0
	}
	return uint64(st.Bavail) * uint64(st.Bsize)
}

func isWritable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}
