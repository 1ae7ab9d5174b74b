package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
)

// MemoryEstimateRepository keeps estimates in process memory. It is used in
// tests and when no database is configured.
type MemoryEstimateRepository struct {
	mu        sync.RWMutex
	estimates map[string]*domain.RugEstimate
	byJob     map[string][]string
	approvals map[string]*domain.Approval
	now       func() time.Time
}

// NewMemoryEstimateRepository creates an empty in-memory repository
func NewMemoryEstimateRepository() *MemoryEstimateRepository {
	return &MemoryEstimateRepository{
		estimates: make(map[string]*domain.RugEstimate),
		byJob:     make(map[string][]string),
		approvals: make(map[string]*domain.Approval),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateEstimate stores a new estimate, assigning an id when it has none
func (r *MemoryEstimateRepository) CreateEstimate(ctx context.Context, estimate *domain.RugEstimate) (*domain.RugEstimate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneEstimate(estimate)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if _, exists := r.estimates[stored.ID]; exists {
		return nil, &RepositoryError{Op: "create_estimate", Err: ErrConflict}
	}
	if stored.Status == "" {
		stored.Status = domain.EstimateStatusDraft
	}
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt

	r.estimates[stored.ID] = stored
	r.byJob[stored.JobID] = append(r.byJob[stored.JobID], stored.ID)
	return cloneEstimate(stored), nil
}

// GetEstimateByID retrieves an estimate by its id
func (r *MemoryEstimateRepository) GetEstimateByID(ctx context.Context, estimateID string) (*domain.RugEstimate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.estimates[estimateID]
	if !ok {
		return nil, &RepositoryError{Op: "get_estimate", Err: ErrNotFound}
	}
	return cloneEstimate(stored), nil
}

// ListEstimatesByJob returns a job's estimates in creation order
func (r *MemoryEstimateRepository) ListEstimatesByJob(ctx context.Context, jobID string) ([]domain.RugEstimate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byJob[jobID]
	out := make([]domain.RugEstimate, 0, len(ids))
	for _, id := range ids {
		out = append(out, *cloneEstimate(r.estimates[id]))
	}
	return out, nil
}

// UpdateServices applies mutate to the service list of a draft estimate
func (r *MemoryEstimateRepository) UpdateServices(ctx context.Context, estimateID string, mutate ServicesMutation) (*domain.RugEstimate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.estimates[estimateID]
	if !ok {
		return nil, &RepositoryError{Op: "update_services", Err: ErrNotFound}
	}
	if stored.Status == domain.EstimateStatusApproved {
		return nil, &RepositoryError{Op: "update_services", Err: ErrLocked}
	}

	services, err := mutate(domain.CloneServices(stored.Services))
	if err != nil {
		return nil, err
	}
	stored.Services = domain.CloneServices(services)
	stored.UpdatedAt = r.now()
	return cloneEstimate(stored), nil
}

// SavePhotoAnnotations replaces the annotations of one photo
func (r *MemoryEstimateRepository) SavePhotoAnnotations(ctx context.Context, estimateID string, photoIndex int, annotations []domain.Annotation) (*domain.RugEstimate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.estimates[estimateID]
	if !ok {
		return nil, &RepositoryError{Op: "save_photo_annotations", Err: ErrNotFound}
	}
	stored.Photos = stored.Photos.With(photoIndex, annotations)
	stored.UpdatedAt = r.now()
	return cloneEstimate(stored), nil
}

// SaveApproval records a job approval and marks its estimates approved
func (r *MemoryEstimateRepository) SaveApproval(ctx context.Context, approval *domain.Approval, rugTotals map[string]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.approvals[approval.JobID]; exists {
		return &RepositoryError{Op: "save_approval", Err: ErrConflict}
	}
	for id := range rugTotals {
		if _, ok := r.estimates[id]; !ok {
			return &RepositoryError{Op: "save_approval", Err: ErrNotFound}
		}
	}

	stored := *approval
	stored.Services = domain.CloneServices(approval.Services)
	if stored.ApprovedAt.IsZero() {
		stored.ApprovedAt = r.now()
	}
	r.approvals[approval.JobID] = &stored

	approvedAt := stored.ApprovedAt
	for id, total := range rugTotals {
		est := r.estimates[id]
		est.Status = domain.EstimateStatusApproved
		est.TotalCost = total
		est.ApprovedAt = &approvedAt
		est.UpdatedAt = r.now()
	}
	return nil
}

// GetApproval returns the approval of a job
func (r *MemoryEstimateRepository) GetApproval(ctx context.Context, jobID string) (*domain.Approval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.approvals[jobID]
	if !ok {
		return nil, &RepositoryError{Op: "get_approval", Err: ErrNotFound}
	}
	out := *stored
	out.Services = domain.CloneServices(stored.Services)
	return &out, nil
}

func cloneEstimate(e *domain.RugEstimate) *domain.RugEstimate {
	out := *e
	out.Services = domain.CloneServices(e.Services)
	out.Photos = make(domain.PhotoSet, len(e.Photos))
	for i, p := range e.Photos {
		out.Photos[i] = domain.PhotoAnnotations{
			PhotoIndex:  p.PhotoIndex,
			Annotations: domain.CloneAnnotations(p.Annotations),
		}
	}
	if e.ApprovedAt != nil {
		at := *e.ApprovedAt
		out.ApprovedAt = &at
	}
	return &out
}
