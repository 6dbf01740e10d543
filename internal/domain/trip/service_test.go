package trip_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"metrofleet/analyst-api/internal/domain/trip"
)

type mockStore struct {
	ListTripsFunc func(ctx context.Context, filter trip.Filter) ([]trip.Trip, error)
}

func (m *mockStore) ListTrips(ctx context.Context, filter trip.Filter) ([]trip.Trip, error) {
	return m.ListTripsFunc(ctx, filter)
}

func TestService_ListLimitPolicy(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"zero uses default", 0, trip.DefaultLimit},
		{"negative uses default", -5, trip.DefaultLimit},
		{"in range is kept", 42, 42},
		{"oversized is clamped", 9999, trip.MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got trip.Filter
			store := &mockStore{
				ListTripsFunc: func(ctx context.Context, filter trip.Filter) ([]trip.Trip, error) {
					got = filter
					return nil, nil
				},
			}
			service := trip.NewService(store, zerolog.Nop())

			if _, err := service.List(context.Background(), trip.Filter{Limit: tt.limit}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Limit != tt.wantLimit {
				t.Errorf("store saw limit %d, want %d", got.Limit, tt.wantLimit)
			}
		})
	}
}

func TestService_ListRejectsInvertedRange(t *testing.T) {
	store := &mockStore{
		ListTripsFunc: func(ctx context.Context, filter trip.Filter) ([]trip.Trip, error) {
			t.Fatal("store must not be called")
			return nil, nil
		},
	}
	service := trip.NewService(store, zerolog.Nop())

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := service.List(context.Background(), trip.Filter{From: from, To: from.Add(-time.Hour)})
	if err == nil {
		t.Fatal("expected an error for to < from")
	}
}

func TestService_ListWrapsStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	store := &mockStore{
		ListTripsFunc: func(ctx context.Context, filter trip.Filter) ([]trip.Trip, error) {
			return nil, storeErr
		},
	}
	service := trip.NewService(store, zerolog.Nop())

	_, err := service.List(context.Background(), trip.Filter{})
	if !errors.Is(err, storeErr) {
		t.Errorf("err = %v, want wrapped store error", err)
	}
}
