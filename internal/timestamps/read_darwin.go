//go:build darwin

package timestamps

import (
	"syscall"
	"time"
)

func accessTime(sys any) (time.Time, bool) {
	st, ok := sys.(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return validTime(st.Atimespec.Sec, st.Atimespec.Nsec)
}

func sysBirthTime(sys any) (time.Time, bool) {
	st, ok := sys.(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return validTime(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
}

func pathBirthTime(string) (time.Time, bool) {
	return time.Time{}, false
}
