//go:build unix

package preflight

import "golang.org/x/sys/unix"

func checkAccess(path string, need Access) error {
	var mode uint32
	if need&Read != 0 {
		mode |= unix.R_OK
	}
	if need&Write != 0 {
		mode |= unix.W_OK
	}
	if need&Search != 0 {
		mode |= unix.X_OK
	}
	return unix.Access(path, mode)
}
