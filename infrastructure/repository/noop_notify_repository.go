//go:build !linux
// +build !linux

package repository

import (
	"github.com/ca-srg/xbmon/domain/repository"
)

// NoopNotifyRepository is the desktop notification repository on platforms
// without a freedesktop notification service.
type NoopNotifyRepository struct{}

// NewDesktopNotifyRepository creates the desktop notification repository for
// this platform
func NewDesktopNotifyRepository() repository.DesktopNotifyRepository {
	return &NoopNotifyRepository{}
}

// IsAvailable always reports false
func (r *NoopNotifyRepository) IsAvailable() bool {
	return false
}

// Notify does nothing
func (r *NoopNotifyRepository) Notify(summary string, body string) error {
	return nil
}
