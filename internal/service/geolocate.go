// Package service contains the trip generation pipeline: origin resolution,
// route calculation, place sampling, weather enrichment, and the assembler
// that orchestrates them. Services depend on provider interfaces, never on
// concrete adapters, and own the error/fallback policy: apart from origin
// resolution, provider failures degrade into approximate data instead of
// surfacing as errors.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/multierr"

	"tripsmith/internal/domain"
	"tripsmith/internal/provider"
)

// PositionFunc obtains a precise device position. It is a single external
// call that may fail or time out; the GPS strategy owns the fallback.
type PositionFunc func(ctx context.Context) (domain.Coordinate, error)

// DefaultStrategyOrder is the order strategies are tried when the caller
// does not override it.
var DefaultStrategyOrder = []domain.LocationSource{domain.SourceGPS, domain.SourceIP}

// Chain resolves the traveller's current location by trying ordered
// strategies, short-circuiting on the first success. Strategies never merge
// partial results.
type Chain struct {
	position  PositionFunc
	geocoders []provider.ReverseGeocoder
	ip        provider.IPLocator
	log       *slog.Logger
}

// NewChain constructs a Chain. position may be nil when no device position
// source exists (the GPS strategy then always fails). geocoders are tried in
// order; ip may be nil (the IP strategy then returns its sentinel).
func NewChain(position PositionFunc, geocoders []provider.ReverseGeocoder, ip provider.IPLocator, log *slog.Logger) *Chain {
	if log == nil {
		log = slog.Default()
	}
	return &Chain{position: position, geocoders: geocoders, ip: ip, log: log}
}

// Resolve tries each strategy in order and returns the first success.
// A nil or empty order means DefaultStrategyOrder. It fails with
// domain.ErrLocationUnavailable only if every strategy in the order failed;
// as long as the IP strategy is included it always succeeds, because that
// strategy has a non-failing last resort.
func (c *Chain) Resolve(ctx context.Context, order []domain.LocationSource) (domain.ResolvedLocation, error) {
	if len(order) == 0 {
		order = DefaultStrategyOrder
	}

	var errs error
	for _, source := range order {
		var (
			loc domain.ResolvedLocation
			err error
		)
		switch source {
		case domain.SourceGPS:
			loc, err = c.resolveGPS(ctx)
		case domain.SourceIP:
			loc, err = c.resolveIP(ctx)
		default:
			err = fmt.Errorf("strategy %q cannot resolve a location", source)
		}
		if err != nil {
			c.log.Warn("location strategy failed", "strategy", string(source), "error", err)
			errs = multierr.Append(errs, err)
			continue
		}
		return loc, nil
	}

	return domain.ResolvedLocation{}, fmt.Errorf("service.Chain.Resolve: %w: %v", domain.ErrLocationUnavailable, errs)
}

// resolveGPS obtains a device position and reverse-geocodes it, trying each
// geocoder in order. It does not return raw coordinates without a place
// name: if every geocoder fails, the whole strategy fails.
func (c *Chain) resolveGPS(ctx context.Context) (domain.ResolvedLocation, error) {
	if c.position == nil {
		return domain.ResolvedLocation{}, fmt.Errorf("no device position source configured")
	}

	coord, err := c.position(ctx)
	if err != nil {
		return domain.ResolvedLocation{}, fmt.Errorf("device position: %w", err)
	}

	var errs error
	for _, geocoder := range c.geocoders {
		addr, err := geocoder.ReverseGeocode(ctx, coord)
		if err != nil || addr.City == "" {
			if err == nil {
				err = fmt.Errorf("empty result")
			}
			c.log.Debug("reverse geocoder failed", "geocoder", geocoder.Name(), "error", err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", geocoder.Name(), err))
			continue
		}
		return domain.ResolvedLocation{
			Coordinate: coord,
			City:       addr.City,
			Country:    addr.Country,
			Address:    addr.Address,
			Source:     domain.SourceGPS,
		}, nil
	}

	if errs == nil {
		errs = fmt.Errorf("no reverse geocoders configured")
	}
	return domain.ResolvedLocation{}, fmt.Errorf("reverse geocode: %w", errs)
}

// resolveIP asks the IP geolocation provider. On any failure it returns the
// last-resort sentinel location instead of an error, which guarantees the
// chain terminates with some result whenever IP is in the order.
func (c *Chain) resolveIP(ctx context.Context) (domain.ResolvedLocation, error) {
	if c.ip != nil {
		loc, err := c.ip.Locate(ctx)
		if err == nil {
			return domain.ResolvedLocation{
				Coordinate: loc.Coordinate,
				City:       loc.City,
				Country:    loc.Country,
				Source:     domain.SourceIP,
			}, nil
		}
		c.log.Warn("ip geolocation failed, using sentinel", "error", err)
	}

	return domain.ResolvedLocation{
		Coordinate: domain.Coordinate{},
		City:       "Earth",
		Country:    "",
		Source:     domain.SourceIP,
	}, nil
}
