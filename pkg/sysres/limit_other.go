//go:build !linux && !darwin

package sysres

import "errors"

func setDataLimit(uint64) error {
	return errors.New("data segment limit not supported on this platform")
}
