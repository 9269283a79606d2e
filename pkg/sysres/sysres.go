// Package sysres applies best-effort process resource limits.
package sysres

import (
	"math"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

const gib = 1 << 30

var applyDataLimit = setDataLimit

// LimitMemory caps the process memory at gigabytes GiB. Zero or negative
// means unlimited. Failures are logged and never returned.
func LimitMemory(gigabytes int, logger *logrus.Logger) {
	if gigabytes <= 0 {
		return
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	limit := int64(gigabytes) * gib
	if gigabytes > math.MaxInt64/gib {
		limit = math.MaxInt64
	}

	debug.SetMemoryLimit(limit)

	if err := applyDataLimit(uint64(limit)); err != nil {
		logger.WithFields(logrus.Fields{
			"max_memory_gb": gigabytes,
			"error":         err.Error(),
		}).Warn("Could not apply memory limit")
		return
	}

	logger.WithField("max_memory_gb", gigabytes).Debug("Memory limit applied")
}
