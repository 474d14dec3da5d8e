// Package location determines the coordinate a dashboard session forecasts for.
//
// Resolution has two tiers: the host device is asked for a fresh position first,
// and only a failed attempt falls back to IP geolocation. A host without any
// device capability fails straight away without trying the fallback.
package location

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"weather-dashboard/models"
)

// Resolver produces a coordinate from the runtime environment
type Resolver struct {
	device   Device // nil when the host has no geolocation capability
	fallback Locator
	options  PositionOptions
	logger   *zap.Logger
}

// NewResolver creates a resolver. device may be nil.
func NewResolver(logger *zap.Logger, device Device, fallback Locator) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		device:   device,
		fallback: fallback,
		options:  DefaultPositionOptions,
		logger:   logger,
	}
}

// SetPositionOptions overrides the options passed to the device
func (r *Resolver) SetPositionOptions(opts PositionOptions) {
	r.options = opts
}

// Resolve returns the device position, or the IP-derived position when the device
// attempt fails. Failures are reported as *UnavailableError.
func (r *Resolver) Resolve(ctx context.Context) (models.Coordinate, error) {
	if r.device == nil {
		return models.Coordinate{}, &UnavailableError{Message: MsgNotSupported}
	}

	coord, err := r.devicePosition(ctx)
	if err == nil {
		r.logger.Info("resolved position from device",
			zap.Float64("lat", coord.Latitude),
			zap.Float64("lon", coord.Longitude))
		return coord, nil
	}

	r.logger.Warn("device position failed, falling back to IP geolocation", zap.Error(err))

	if r.fallback == nil {
		return models.Coordinate{}, &UnavailableError{Message: MsgUnavailable, Err: err}
	}

	coord, err = r.fallback.Locate(ctx)
	if err != nil {
		r.logger.Error("IP geolocation failed", zap.String("locator", r.fallback.Name()), zap.Error(err))
		return models.Coordinate{}, &UnavailableError{Message: MsgUnavailable, Err: err}
	}

	r.logger.Info("resolved position from IP geolocation",
		zap.String("locator", r.fallback.Name()),
		zap.Float64("lat", coord.Latitude),
		zap.Float64("lon", coord.Longitude))
	return coord, nil
}

// devicePosition asks the device for a position within the configured timeout
func (r *Resolver) devicePosition(ctx context.Context) (models.Coordinate, error) {
	attemptCtx := ctx
	if r.options.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, r.options.Timeout)
		defer cancel()
	}

	type result struct {
		coord models.Coordinate
		err   error
	}
	done := make(chan result, 1)
	go func() {
		coord, err := r.device.CurrentPosition(attemptCtx, r.options)
		done <- result{coord, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			var posErr *PositionError
			if !errors.As(res.err, &posErr) {
				return models.Coordinate{}, &PositionError{Code: PositionUnavailable, Err: res.err}
			}
		}
		return res.coord, res.err
	case <-attemptCtx.Done():
		return models.Coordinate{}, &PositionError{Code: Timeout, Err: attemptCtx.Err()}
	}
}
