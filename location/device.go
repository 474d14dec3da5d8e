package location

import (
	"context"
	"time"

	"weather-dashboard/models"
)

// PositionOptions are the constraints a Device must honor for a single request
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration // 0 means a cached position is never acceptable
}

// DefaultPositionOptions requests a fresh, high accuracy fix within five seconds
var DefaultPositionOptions = PositionOptions{
	HighAccuracy: true,
	Timeout:      5 * time.Second,
	MaximumAge:   0,
}

// Device is the host's own geolocation capability
type Device interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (models.Coordinate, error)
}

// DeviceFunc adapts a function to the Device interface
type DeviceFunc func(ctx context.Context, opts PositionOptions) (models.Coordinate, error)

func (f DeviceFunc) CurrentPosition(ctx context.Context, opts PositionOptions) (models.Coordinate, error) {
	return f(ctx, opts)
}

// StaticDevice reports a position configured for the host. With no position
// configured it answers PositionUnavailable.
type StaticDevice struct {
	position *models.Coordinate
}

// NewStaticDevice creates a device for the given position; nil means unknown
func NewStaticDevice(position *models.Coordinate) *StaticDevice {
	return &StaticDevice{position: position}
}

// CurrentPosition returns the configured position
func (d *StaticDevice) CurrentPosition(ctx context.Context, _ PositionOptions) (models.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinate{}, &PositionError{Code: Timeout, Err: err}
	}
	if d.position == nil {
		return models.Coordinate{}, &PositionError{Code: PositionUnavailable}
	}
	return *d.position, nil
}

var (
	_ Device = (*StaticDevice)(nil)
	_ Device = DeviceFunc(nil)
)
