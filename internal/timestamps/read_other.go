//go:build !linux && !darwin && !windows

package timestamps

import "time"

func accessTime(any) (time.Time, bool) {
	return time.Time{}, false
}

func sysBirthTime(any) (time.Time, bool) {
	return time.Time{}, false
}

func pathBirthTime(string) (time.Time, bool) {
	return time.Time{}, false
}
