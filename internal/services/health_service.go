package services

import (
	"context"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	startTime time.Time
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Runtime   map[string]string `json:"runtime,omitempty"`
}

// VersionInfo represents the version response
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
}

// NewHealthService creates a new health service
func NewHealthService(version string) *HealthService {
	return &HealthService{
		version:   version,
		startTime: time.Now(),
	}
}

// HealthCheck reports overall service health. The service has no
// external collaborators, so health is liveness plus uptime.
func (s *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Runtime: map[string]string{
			"go_version": runtime.Version(),
			"uptime":     time.Since(s.startTime).Round(time.Second).String(),
		},
	}
}

// LivenessCheck reports process liveness
func (s *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   s.version,
	}
}

// Version returns build version information
func (s *HealthService) Version() VersionInfo {
	return VersionInfo{
		Version:   s.version,
		GoVersion: runtime.Version(),
	}
}
