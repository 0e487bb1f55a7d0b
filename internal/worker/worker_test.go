package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepairService struct {
	relinks atomic.Int32
	purges  atomic.Int32
}

func (f *fakeRepairService) RelinkOrders(_ context.Context) error {
	f.relinks.Add(1)
	return nil
}

func (f *fakeRepairService) PurgeStale(_ context.Context, _ time.Duration) error {
	f.purges.Add(1)
	return nil
}

func TestReconciler_Run(t *testing.T) {
	svc := &fakeRepairService{}
	rc := NewReconciler(svc, 5*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rc.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return svc.relinks.Load() >= 2 && svc.purges.Load() >= 2
	}, time.Second, time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancellation")
	}
}
