//go:build linux

package timestamps

import (
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

func accessTime(sys any) (time.Time, bool) {
	st, ok := sys.(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return validTime(int64(st.Atim.Sec), int64(st.Atim.Nsec))
}

// Linux stat(2) has no birth time; statx(2) exposes it when the filesystem
// records one.
func sysBirthTime(any) (time.Time, bool) {
	return time.Time{}, false
}

func pathBirthTime(path string) (time.Time, bool) {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx); err != nil {
		return time.Time{}, false
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, false
	}
	return validTime(stx.Btime.Sec, int64(stx.Btime.Nsec))
}
