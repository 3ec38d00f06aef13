package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpotSearchStore_Search(t *testing.T) {
	gw := newFakeGateway()
	s := NewSpotSearchStore(gw, nil)
	s.Load(context.Background())

	tests := []struct {
		term string
		want []int64
	}{
		{"", nil},
		{"   ", nil},
		{"malibu", []int64{1}},
		{"MORRO", []int64{3}},
		{"beach", []int64{1, 2, 3}},
		{"pier", []int64{2}},
		{"los angeles", []int64{1}},
		{"Obispo", []int64{2, 3}},
		{"nothing here", nil},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := s.Search(tt.term)
			require.NotNil(t, got)
			ids := []int64{}
			for _, sp := range got {
				ids = append(ids, sp.ID)
			}
			if tt.want == nil {
				assert.Empty(t, ids)
				return
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSpotSearchStore_LoadsOnce(t *testing.T) {
	gw := newFakeGateway()
	s := NewSpotSearchStore(gw, nil)

	s.Load(context.Background())
	s.Load(context.Background())

	assert.Equal(t, 1, gw.count("list_spots"))
	assert.Len(t, s.Spots(), 3)
}

func TestSpotSearchStore_LoadFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.failListSpots = "dial tcp: connection refused"
	s := NewSpotSearchStore(gw, nil)

	s.Load(context.Background())

	assert.NotNil(t, s.Spots())
	assert.Empty(t, s.Spots())
	assert.False(t, s.Loading())
	assert.Equal(t, "dial tcp: connection refused", s.Error())

	gw.failListSpots = ""
	s.Load(context.Background())
	assert.Len(t, s.Spots(), 3, "a failed load can be retried")
}
