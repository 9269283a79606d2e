//go:build linux || darwin

package sysres

import "golang.org/x/sys/unix"

func setDataLimit(limit uint64) error {
	var current unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_DATA, &current); err != nil {
		rlimit := unix.Rlimit{Cur: limit, Max: limit}
		return unix.Setrlimit(unix.RLIMIT_DATA, &rlimit)
	}

	rlimit := clampRlimit(limit, current)
	return unix.Setrlimit(unix.RLIMIT_DATA, &rlimit)
}

// clampRlimit never raises the hard limit, which an unprivileged process
// cannot do.
func clampRlimit(limit uint64, current unix.Rlimit) unix.Rlimit {
	if current.Max < limit {
		return unix.Rlimit{Cur: current.Max, Max: current.Max}
	}
	return unix.Rlimit{Cur: limit, Max: limit}
}
