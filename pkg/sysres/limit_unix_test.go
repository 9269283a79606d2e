//go:build linux || darwin

package sysres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestClampRlimit(t *testing.T) {
	tests := []struct {
		name    string
		limit   uint64
		current unix.Rlimit
		want    unix.Rlimit
	}{
		{
			name:    "below hard limit",
			limit:   4 * gib,
			current: unix.Rlimit{Cur: 8 * gib, Max: 16 * gib},
			want:    unix.Rlimit{Cur: 4 * gib, Max: 4 * gib},
		},
		{
			name:    "above hard limit",
			limit:   32 * gib,
			current: unix.Rlimit{Cur: 8 * gib, Max: 16 * gib},
			want:    unix.Rlimit{Cur: 16 * gib, Max: 16 * gib},
		},
		{
			name:    "equal to hard limit",
			limit:   16 * gib,
			current: unix.Rlimit{Cur: 1 * gib, Max: 16 * gib},
			want:    unix.Rlimit{Cur: 16 * gib, Max: 16 * gib},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampRlimit(tt.limit, tt.current))
		})
	}
}
