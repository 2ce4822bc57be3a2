package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/voyager/internal/domain"
	"github.com/pkordes/voyager/internal/service"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"beach", []string{"beach"}},
		{"beach, temple ,,hot springs", []string{"beach", "temple", "hot springs"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, service.SplitTags(tt.raw))
		})
	}
}

func TestFeedService_Browse_RandomWithoutTags(t *testing.T) {
	var personalizedCalled bool
	f := &mockFeed{
		random: func(context.Context) ([]domain.Destination, error) { return nil, nil },
		personalized: func(context.Context, []string) ([]domain.Destination, error) {
			personalizedCalled = true
			return nil, nil
		},
	}
	s := service.NewFeedService(f, nil)

	got, err := s.Browse(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.False(t, personalizedCalled)
}

func TestFeedService_Browse_PersonalizedRemembersShown(t *testing.T) {
	var gotTags []string
	f := &mockFeed{
		personalized: func(_ context.Context, tags []string) ([]domain.Destination, error) {
			gotTags = tags
			return []domain.Destination{kyoto}, nil
		},
	}
	s := service.NewFeedService(f, nil)
	_, ok := s.Lookup(kyoto.ID)
	require.False(t, ok)

	got, err := s.Browse(context.Background(), []string{"temple"})

	require.NoError(t, err)
	assert.Equal(t, []domain.Destination{kyoto}, got)
	assert.Equal(t, []string{"temple"}, gotTags)
	d, ok := s.Lookup(kyoto.ID)
	assert.True(t, ok)
	assert.Equal(t, kyoto, d)
}

func TestFeedService_Browse_Error(t *testing.T) {
	f := &mockFeed{
		random: func(context.Context) ([]domain.Destination, error) { return nil, domain.ErrTransport },
	}
	s := service.NewFeedService(f, nil)

	_, err := s.Browse(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrTransport)
}
