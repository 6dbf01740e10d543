package trip

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Service lists trips with clamped limits.
type Service interface {
	List(ctx context.Context, filter Filter) ([]Trip, error)
}

// ServiceImpl provides the domain implementation.
type ServiceImpl struct {
	store Store
	log   zerolog.Logger
}

// NewService wires dependencies.
func NewService(store Store, log zerolog.Logger) *ServiceImpl {
	return &ServiceImpl{
		store: store,
		log:   log.With().Str("component", "trip-service").Logger(),
	}
}

// List applies the limit policy and delegates to the store.
func (s *ServiceImpl) List(ctx context.Context, filter Filter) ([]Trip, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, fmt.Errorf("invalid time range: to precedes from")
	}

	trips, err := s.store.ListTrips(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("list trips failed")
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}
