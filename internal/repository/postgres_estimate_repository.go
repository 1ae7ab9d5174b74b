package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
)

const estimateColumns = `id, job_id, rug_label, report_text, services, photos, status, total_cost, approved_at, created_at, updated_at`

// PostgresEstimateRepository implements EstimateRepository using PostgreSQL.
// Service lists and photo annotations are stored as JSONB arrays.
type PostgresEstimateRepository struct {
	db *pgxpool.Pool
}

// NewPostgresEstimateRepository creates a new PostgreSQL estimate repository
func NewPostgresEstimateRepository(db *pgxpool.Pool) *PostgresEstimateRepository {
	return &PostgresEstimateRepository{
		db: db,
	}
}

// CreateEstimate saves a new estimate to the database
func (r *PostgresEstimateRepository) CreateEstimate(ctx context.Context, estimate *domain.RugEstimate) (*domain.RugEstimate, error) {
	if estimate.ID == "" {
		estimate.ID = uuid.NewString()
	}
	if estimate.Status == "" {
		estimate.Status = domain.EstimateStatusDraft
	}

	services, photos, err := encodeEstimateJSON(estimate.Services, estimate.Photos)
	if err != nil {
		return nil, &RepositoryError{Op: "create_estimate", Err: err}
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO rug_estimates (id, job_id, rug_label, report_text, services, photos, status, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+estimateColumns,
		estimate.ID, estimate.JobID, estimate.RugLabel, estimate.ReportText,
		services, photos, string(estimate.Status), estimate.TotalCost,
	)
	created, err := scanEstimate(row)
	if err != nil {
		return nil, &RepositoryError{Op: "create_estimate", Err: fmt.Errorf("failed to insert estimate: %w", err)}
	}
	return created, nil
}

// GetEstimateByID retrieves an estimate by its id
func (r *PostgresEstimateRepository) GetEstimateByID(ctx context.Context, estimateID string) (*domain.RugEstimate, error) {
	if _, err := uuid.Parse(estimateID); err != nil {
		return nil, &RepositoryError{Op: "get_estimate", Err: ErrNotFound}
	}

	row := r.db.QueryRow(ctx, `SELECT `+estimateColumns+` FROM rug_estimates WHERE id = $1`, estimateID)
	estimate, err := scanEstimate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &RepositoryError{Op: "get_estimate", Err: ErrNotFound}
		}
		return nil, &RepositoryError{Op: "get_estimate", Err: err}
	}
	return estimate, nil
}

// ListEstimatesByJob returns a job's estimates in creation order
func (r *PostgresEstimateRepository) ListEstimatesByJob(ctx context.Context, jobID string) ([]domain.RugEstimate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+estimateColumns+`
		FROM rug_estimates
		WHERE job_id = $1
		ORDER BY created_at, id
	`, jobID)
	if err != nil {
		return nil, &RepositoryError{Op: "list_estimates", Err: err}
	}
	defer rows.Close()

	estimates := []domain.RugEstimate{}
	for rows.Next() {
		estimate, err := scanEstimate(rows)
		if err != nil {
			return nil, &RepositoryError{Op: "list_estimates", Err: err}
		}
		estimates = append(estimates, *estimate)
	}
	if err := rows.Err(); err != nil {
		return nil, &RepositoryError{Op: "list_estimates", Err: err}
	}
	return estimates, nil
}

// UpdateServices applies mutate to the service list of a draft estimate. The
// row is locked for the duration, so concurrent edits and approvals of the
// same rug are serialized.
func (r *PostgresEstimateRepository) UpdateServices(ctx context.Context, estimateID string, mutate ServicesMutation) (*domain.RugEstimate, error) {
	if _, err := uuid.Parse(estimateID); err != nil {
		return nil, &RepositoryError{Op: "update_services", Err: ErrNotFound}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, &RepositoryError{Op: "update_services", Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	var status string
	var rawServices []byte
	err = tx.QueryRow(ctx, `SELECT status, services FROM rug_estimates WHERE id = $1 FOR UPDATE`, estimateID).Scan(&status, &rawServices)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &RepositoryError{Op: "update_services", Err: ErrNotFound}
		}
		return nil, &RepositoryError{Op: "update_services", Err: err}
	}
	if domain.EstimateStatus(status) == domain.EstimateStatusApproved {
		return nil, &RepositoryError{Op: "update_services", Err: ErrLocked}
	}

	var current []domain.ServiceItem
	if err := json.Unmarshal(rawServices, &current); err != nil {
		return nil, &RepositoryError{Op: "update_services", Err: fmt.Errorf("decode services: %w", err)}
	}
	services, err := mutate(current)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(nonNilServices(services))
	if err != nil {
		return nil, &RepositoryError{Op: "update_services", Err: err}
	}

	row := tx.QueryRow(ctx, `
		UPDATE rug_estimates
		SET services = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING `+estimateColumns,
		estimateID, encoded, string(domain.EstimateStatusDraft),
	)
	estimate, err := scanEstimate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &RepositoryError{Op: "update_services", Err: ErrLocked}
		}
		return nil, &RepositoryError{Op: "update_services", Err: err}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, &RepositoryError{Op: "update_services", Err: fmt.Errorf("failed to commit transaction: %w", err)}
	}
	return estimate, nil
}

// SavePhotoAnnotations replaces the annotations of one photo inside a
// transaction so concurrent commits to other photos are not lost
func (r *PostgresEstimateRepository) SavePhotoAnnotations(ctx context.Context, estimateID string, photoIndex int, annotations []domain.Annotation) (*domain.RugEstimate, error) {
	if _, err := uuid.Parse(estimateID); err != nil {
		return nil, &RepositoryError{Op: "save_photo_annotations", Err: ErrNotFound}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, &RepositoryError{Op: "save_photo_annotations", Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	var rawPhotos []byte
	err = tx.QueryRow(ctx, `SELECT photos FROM rug_estimates WHERE id = $1 FOR UPDATE`, estimateID).Scan(&rawPhotos)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &RepositoryError{Op: "save_photo_annotations", Err: ErrNotFound}
		}
		return nil, &RepositoryError{Op: "save_photo_annotations", Err: err}
	}

	var photos domain.PhotoSet
	if err := json.Unmarshal(rawPhotos, &photos); err != nil {
		return nil, &RepositoryError{Op: "save_photo_annotations", Err: fmt.Errorf("decode photos: %w", err)}
	}
	encoded, err := json.Marshal(photos.With(photoIndex, annotations))
	if err != nil {
		return nil, &RepositoryError{Op: "save_photo_annotations", Err: err}
	}

	row := tx.QueryRow(ctx, `
		UPDATE rug_estimates
		SET photos = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+estimateColumns,
		estimateID, encoded,
	)
	estimate, err := scanEstimate(row)
	if err != nil {
		return nil, &RepositoryError{Op: "save_photo_annotations", Err: err}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, &RepositoryError{Op: "save_photo_annotations", Err: fmt.Errorf("failed to commit transaction: %w", err)}
	}
	return estimate, nil
}

// SaveApproval records a job approval and marks its estimates approved
func (r *PostgresEstimateRepository) SaveApproval(ctx context.Context, approval *domain.Approval, rugTotals map[string]float64) error {
	if approval.ApprovedAt.IsZero() {
		approval.ApprovedAt = time.Now().UTC()
	}
	services, err := json.Marshal(nonNilServices(approval.Services))
	if err != nil {
		return &RepositoryError{Op: "save_approval", Err: err}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return &RepositoryError{Op: "save_approval", Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	var jobID string
	err = tx.QueryRow(ctx, `
		INSERT INTO job_approvals (job_id, services, total_cost, approved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (job_id) DO NOTHING
		RETURNING job_id
	`, approval.JobID, services, approval.TotalCost, approval.ApprovedAt).Scan(&jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &RepositoryError{Op: "save_approval", Err: ErrConflict}
		}
		return &RepositoryError{Op: "save_approval", Err: fmt.Errorf("failed to insert approval: %w", err)}
	}

	for estimateID, total := range rugTotals {
		tag, err := tx.Exec(ctx, `
			UPDATE rug_estimates
			SET status = $2, total_cost = $3, approved_at = $4, updated_at = NOW()
			WHERE id = $1 AND job_id = $5
		`, estimateID, string(domain.EstimateStatusApproved), total, approval.ApprovedAt, approval.JobID)
		if err != nil {
			return &RepositoryError{Op: "save_approval", Err: fmt.Errorf("failed to update estimate: %w", err)}
		}
		if tag.RowsAffected() == 0 {
			return &RepositoryError{Op: "save_approval", Err: ErrNotFound}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return &RepositoryError{Op: "save_approval", Err: fmt.Errorf("failed to commit transaction: %w", err)}
	}
	return nil
}

// GetApproval returns the approval of a job
func (r *PostgresEstimateRepository) GetApproval(ctx context.Context, jobID string) (*domain.Approval, error) {
	var approval domain.Approval
	var rawServices []byte
	err := r.db.QueryRow(ctx, `
		SELECT job_id, services, total_cost, approved_at
		FROM job_approvals
		WHERE job_id = $1
	`, jobID).Scan(&approval.JobID, &rawServices, &approval.TotalCost, &approval.ApprovedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &RepositoryError{Op: "get_approval", Err: ErrNotFound}
		}
		return nil, &RepositoryError{Op: "get_approval", Err: err}
	}
	if err := json.Unmarshal(rawServices, &approval.Services); err != nil {
		return nil, &RepositoryError{Op: "get_approval", Err: fmt.Errorf("decode services: %w", err)}
	}
	return &approval, nil
}

func scanEstimate(row pgx.Row) (*domain.RugEstimate, error) {
	var estimate domain.RugEstimate
	var status string
	var rawServices, rawPhotos []byte

	err := row.Scan(
		&estimate.ID, &estimate.JobID, &estimate.RugLabel, &estimate.ReportText,
		&rawServices, &rawPhotos, &status, &estimate.TotalCost,
		&estimate.ApprovedAt, &estimate.CreatedAt, &estimate.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	estimate.Status = domain.EstimateStatus(status)

	if err := json.Unmarshal(rawServices, &estimate.Services); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}
	if err := json.Unmarshal(rawPhotos, &estimate.Photos); err != nil {
		return nil, fmt.Errorf("decode photos: %w", err)
	}
	if estimate.Services == nil {
		estimate.Services = []domain.ServiceItem{}
	}
	if estimate.Photos == nil {
		estimate.Photos = domain.PhotoSet{}
	}
	return &estimate, nil
}

func encodeEstimateJSON(services []domain.ServiceItem, photos domain.PhotoSet) ([]byte, []byte, error) {
	encodedServices, err := json.Marshal(nonNilServices(services))
	if err != nil {
		return nil, nil, fmt.Errorf("encode services: %w", err)
	}
	if photos == nil {
		photos = domain.PhotoSet{}
	}
	encodedPhotos, err := json.Marshal(photos)
	if err != nil {
		return nil, nil, fmt.Errorf("encode photos: %w", err)
	}
	return encodedServices, encodedPhotos, nil
}

func nonNilServices(services []domain.ServiceItem) []domain.ServiceItem {
	if services == nil {
		return []domain.ServiceItem{}
	}
	return services
}
