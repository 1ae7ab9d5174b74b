package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEstimate(jobID, label string) *domain.RugEstimate {
	return &domain.RugEstimate{
		JobID:    jobID,
		RugLabel: label,
		Services: []domain.ServiceItem{
			{ID: "s1", Name: "Deep Cleaning", Quantity: 1, UnitPrice: 120, Priority: domain.PriorityHigh},
		},
	}
}

func TestMemoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEstimateRepository()

	created, err := repo.CreateEstimate(ctx, newEstimate("job-1", "Persian 8x10"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.EstimateStatusDraft, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetEstimateByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got.Services[0].Name = "mutated"
	again, err := repo.GetEstimateByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deep Cleaning", again.Services[0].Name, "reads return copies")
}

func TestMemoryGetMissing(t *testing.T) {
	_, err := NewMemoryEstimateRepository().GetEstimateByID(context.Background(), "nope")

	assert.True(t, errors.Is(err, ErrNotFound))
	var repoErr *RepositoryError
	require.True(t, errors.As(err, &repoErr))
	assert.Equal(t, "get_estimate", repoErr.Op)
}

func TestMemoryListByJobKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEstimateRepository()

	first, _ := repo.CreateEstimate(ctx, newEstimate("job-1", "first"))
	_, _ = repo.CreateEstimate(ctx, newEstimate("job-2", "other"))
	second, _ := repo.CreateEstimate(ctx, newEstimate("job-1", "second"))

	list, err := repo.ListEstimatesByJob(ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	empty, err := repo.ListEstimatesByJob(ctx, "job-3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryUpdateServicesAndAnnotations(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEstimateRepository()
	created, _ := repo.CreateEstimate(ctx, newEstimate("job-1", "rug"))

	updated, err := repo.UpdateServices(ctx, created.ID, func([]domain.ServiceItem) ([]domain.ServiceItem, error) {
		return []domain.ServiceItem{{ID: "s2", Name: "Padding", Quantity: 1, Priority: domain.PriorityLow}}, nil
	})
	require.NoError(t, err)
	require.Len(t, updated.Services, 1)
	assert.Equal(t, "Padding", updated.Services[0].Name)

	withPhotos, err := repo.SavePhotoAnnotations(ctx, created.ID, 1, []domain.Annotation{{Label: "Issue 1", X: 5, Y: 5}})
	require.NoError(t, err)
	assert.Len(t, withPhotos.Photos.Lookup(1), 1)
	assert.Empty(t, withPhotos.Photos.Lookup(0))

	_, err = repo.SavePhotoAnnotations(ctx, "missing", 0, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySaveApproval(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEstimateRepository()
	created, _ := repo.CreateEstimate(ctx, newEstimate("job-1", "rug"))

	approval := &domain.Approval{JobID: "job-1", Services: created.Services, TotalCost: 120}
	require.NoError(t, repo.SaveApproval(ctx, approval, map[string]float64{created.ID: 120}))

	est, err := repo.GetEstimateByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusApproved, est.Status)
	assert.Equal(t, 120.0, est.TotalCost)
	require.NotNil(t, est.ApprovedAt)

	got, err := repo.GetApproval(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.TotalCost)

	err = repo.SaveApproval(ctx, approval, nil)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = repo.GetApproval(ctx, "job-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateServicesAborts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEstimateRepository()
	created, _ := repo.CreateEstimate(ctx, newEstimate("job-1", "rug"))

	errStop := errors.New("stop")
	_, err := repo.UpdateServices(ctx, created.ID, func(services []domain.ServiceItem) ([]domain.ServiceItem, error) {
		services[0].Name = "mutated"
		return nil, errStop
	})
	assert.ErrorIs(t, err, errStop)

	got, _ := repo.GetEstimateByID(ctx, created.ID)
	assert.Equal(t, "Deep Cleaning", got.Services[0].Name)

	_, err = repo.UpdateServices(ctx, "missing", func(s []domain.ServiceItem) ([]domain.ServiceItem, error) { return s, nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateServicesLockedAfterApproval(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEstimateRepository()
	created, _ := repo.CreateEstimate(ctx, newEstimate("job-1", "rug"))
	require.NoError(t, repo.SaveApproval(ctx, &domain.Approval{JobID: "job-1"}, map[string]float64{created.ID: 120}))

	called := false
	_, err := repo.UpdateServices(ctx, created.ID, func(s []domain.ServiceItem) ([]domain.ServiceItem, error) {
		called = true
		return s, nil
	})
	assert.ErrorIs(t, err, ErrLocked)
	assert.False(t, called)
}

func TestMemoryUpdateServicesConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEstimateRepository()
	created, _ := repo.CreateEstimate(ctx, newEstimate("job-1", "rug"))

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.UpdateServices(ctx, created.ID, func(services []domain.ServiceItem) ([]domain.ServiceItem, error) {
				time.Sleep(time.Millisecond)
				return append(services, domain.ServiceItem{ID: fmt.Sprintf("add-%d", i), Name: "Padding", Quantity: 1}), nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := repo.GetEstimateByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Services, writers+1)
}
