package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yansassi23/restaurapro/internal/models"
)

type fakeRepairRepo struct {
	unlinked   []models.Order
	linked     map[string][]string
	purgedFrom *time.Time
}

func (f *fakeRepairRepo) GetUnlinkedOrders(_ context.Context) ([]models.Order, error) {
	return f.unlinked, nil
}

func (f *fakeRepairRepo) UpdateAssetRefs(_ context.Context, num string, refs []string) error {
	if f.linked == nil {
		f.linked = map[string][]string{}
	}
	f.linked[num] = refs
	return nil
}

func (f *fakeRepairRepo) PurgeStalePending(_ context.Context, cutoff time.Time) (int64, error) {
	f.purgedFrom = &cutoff
	return 2, nil
}

type fakeLister struct {
	refs map[string][]string
}

func (f *fakeLister) List(_ context.Context, prefix string) ([]string, error) {
	return f.refs[prefix], nil
}

func TestRepairService_RelinkOrders(t *testing.T) {
	repo := &fakeRepairRepo{
		unlinked: []models.Order{
			{Number: "ORD123", PlanID: "popular"},
			{Number: "ORD456", PlanID: "popular"},
		},
	}
	lister := &fakeLister{refs: map[string][]string{
		// complete upload, repairable
		"ORD123/": {"ref1", "ref2"},
		// incomplete upload, left alone
		"ORD456/": {"ref1"},
	}}

	svc := NewRepairService(repo, lister)
	require.NoError(t, svc.RelinkOrders(context.Background()))

	assert.Equal(t, []string{"ref1", "ref2"}, repo.linked["ORD123"])
	_, relinked := repo.linked["ORD456"]
	assert.False(t, relinked)
}

func TestRepairService_RelinkRestoresUploadSlotOrder(t *testing.T) {
	repo := &fakeRepairRepo{
		unlinked: []models.Order{{Number: "ORD789", PlanID: "premium"}},
	}
	// lexicographic store listing puts image_10 before image_2
	lister := &fakeLister{refs: map[string][]string{
		"ORD789/": {
			"ORD789/image_1.jpg",
			"ORD789/image_10.jpg",
			"ORD789/image_2.png",
			"ORD789/image_3.jpg",
			"ORD789/image_4.jpg",
		},
	}}

	svc := NewRepairService(repo, lister)
	require.NoError(t, svc.RelinkOrders(context.Background()))

	assert.Equal(t, []string{
		"ORD789/image_1.jpg",
		"ORD789/image_2.png",
		"ORD789/image_3.jpg",
		"ORD789/image_4.jpg",
		"ORD789/image_10.jpg",
	}, repo.linked["ORD789"])
}

func TestRepairService_PurgeStale(t *testing.T) {
	repo := &fakeRepairRepo{}
	svc := NewRepairService(repo, &fakeLister{})

	before := time.Now().Add(-time.Hour)
	require.NoError(t, svc.PurgeStale(context.Background(), time.Hour))

	require.NotNil(t, repo.purgedFrom)
	// cutoff is ttl in the past
	assert.WithinDuration(t, before, *repo.purgedFrom, time.Minute)
}
