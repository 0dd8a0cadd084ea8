//go:build windows

package timestamps

import (
	"syscall"
	"time"
)

func accessTime(sys any) (time.Time, bool) {
	data, ok := sys.(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, false
	}
	return filetime(data.LastAccessTime)
}

func sysBirthTime(sys any) (time.Time, bool) {
	data, ok := sys.(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, false
	}
	return filetime(data.CreationTime)
}

func pathBirthTime(string) (time.Time, bool) {
	return time.Time{}, false
}

func filetime(ft syscall.Filetime) (time.Time, bool) {
	if ft.HighDateTime == 0 && ft.LowDateTime == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, ft.Nanoseconds()), true
}
