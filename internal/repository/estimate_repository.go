package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
)

var (
	// ErrNotFound is returned when a rug estimate or approval does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a job already has an approval.
	ErrConflict = errors.New("conflict")

	// ErrLocked is returned when changing the services of an approved estimate.
	ErrLocked = errors.New("estimate is approved")
)

// ServicesMutation computes the new service list of an estimate from the
// stored one. It runs while the estimate is locked, so the whole
// read-modify-write is atomic. Its error aborts the update and is returned
// unchanged.
type ServicesMutation func(services []domain.ServiceItem) ([]domain.ServiceItem, error)

// RepositoryError tags a storage failure with the operation that caused it
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// EstimateRepository defines the persistence operations for rug estimates
type EstimateRepository interface {
	// Estimate CRUD operations
	CreateEstimate(ctx context.Context, estimate *domain.RugEstimate) (*domain.RugEstimate, error)
	GetEstimateByID(ctx context.Context, estimateID string) (*domain.RugEstimate, error)
	ListEstimatesByJob(ctx context.Context, jobID string) ([]domain.RugEstimate, error)
	UpdateServices(ctx context.Context, estimateID string, mutate ServicesMutation) (*domain.RugEstimate, error)

	// Annotation operations
	SavePhotoAnnotations(ctx context.Context, estimateID string, photoIndex int, annotations []domain.Annotation) (*domain.RugEstimate, error)

	// Approval operations; rugTotals maps estimate id to its approved total
	SaveApproval(ctx context.Context, approval *domain.Approval, rugTotals map[string]float64) error
	GetApproval(ctx context.Context, jobID string) (*domain.Approval, error)
}
