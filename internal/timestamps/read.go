package timestamps

import (
	"io/fs"
	"time"
)

// FromFileInfo extracts the timestamps available without touching the
// filesystem again: modification time plus whatever the platform stat
// structure carries.
func FromFileInfo(info fs.FileInfo) Times {
	times := Times{}
	if info == nil {
		return times
	}
	if mod := info.ModTime(); !mod.IsZero() {
		times[Modified] = mod
	}
	if sys := info.Sys(); sys != nil {
		if accessed, ok := accessTime(sys); ok {
			times[Accessed] = accessed
		}
		if created, ok := sysBirthTime(sys); ok {
			times[Created] = created
		}
	}
	return times
}

// Read gathers every timestamp the platform exposes for path. Kinds that are
// unavailable are left out rather than reported as errors.
func Read(path string, info fs.FileInfo) Times {
	times := FromFileInfo(info)
	if _, ok := times[Created]; !ok {
		if created, ok := pathBirthTime(path); ok {
			times[Created] = created
		}
	}
	return times
}

func validTime(sec, nsec int64) (time.Time, bool) {
	if sec == 0 && nsec == 0 {
		return time.Time{}, false
	}
	return time.Unix(sec, nsec), true
}
