// Package diskspace checks available disk space before large writes, so a
// download can fail up front instead of half way through a long transfer.
package diskspace

import (
	"errors"
	"fmt"
)

// DefaultSafetyMargin leaves 10% headroom beyond the file size.
const DefaultSafetyMargin = 1.1

// InsufficientSpaceError indicates that the target filesystem cannot hold
// the incoming file.
type InsufficientSpaceError struct {
	Path           string
	RequiredBytes  int64
	AvailableBytes int64
}

func (e *InsufficientSpaceError) Error() string {
	requiredMB := float64(e.RequiredBytes) / (1024 * 1024)
	availableMB := float64(e.AvailableBytes) / (1024 * 1024)
	return fmt.Sprintf("insufficient disk space for %s: need %.2f MB, have %.2f MB available",
		e.Path, requiredMB, availableMB)
}

// IsInsufficientSpaceError reports whether err is an InsufficientSpaceError.
func IsInsufficientSpaceError(err error) bool {
	var target *InsufficientSpaceError
	return errors.As(err, &target)
}

// CheckAvailableSpace verifies the filesystem holding targetPath's directory
// has room for requiredBytes times safetyMargin. When the filesystem cannot
// be queried (network mounts, exotic filesystems) the check passes and the
// write is left to fail naturally.
func CheckAvailableSpace(targetPath string, requiredBytes int64, safetyMargin float64) error {
	available := availableSpace(targetPath)
	if available == 0 {
		return nil
	}

	requiredWithMargin := int64(float64(requiredBytes) * safetyMargin)
	if available < requiredWithMargin {
		return &InsufficientSpaceError{
			Path:           targetPath,
			RequiredBytes:  requiredWithMargin,
			AvailableBytes: available,
		}
	}
	return nil
}

// GetAvailableSpace returns the bytes available to this process on the
// filesystem containing path, or 0 when it cannot be determined.
func GetAvailableSpace(path string) int64 {
	return availableSpace(path)
}
