package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ridwanfathin/rug-estimate-service/internal/annotation"
	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
	"github.com/ridwanfathin/rug-estimate-service/internal/export"
	"github.com/ridwanfathin/rug-estimate-service/internal/reportparser"
	"github.com/ridwanfathin/rug-estimate-service/internal/repository"
	"github.com/ridwanfathin/rug-estimate-service/internal/selection"
	"github.com/ridwanfathin/rug-estimate-service/internal/storage"
)

var (
	// ErrAlreadyApproved is returned when approving a job twice.
	ErrAlreadyApproved = errors.New("job already approved")

	// ErrEstimateLocked is returned when editing the services of an approved rug.
	ErrEstimateLocked = errors.New("estimate is approved and can no longer be edited")

	// ErrNoEstimates is returned for jobs without any rug estimate.
	ErrNoEstimates = errors.New("job has no rug estimates")

	// ErrServiceNotFound is returned when a service id is not on the rug.
	ErrServiceNotFound = errors.New("service not found")
)

// EstimateServiceError represents an error in the estimate service
type EstimateServiceError struct {
	Op  string
	Err error
}

func (e *EstimateServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *EstimateServiceError) Unwrap() error {
	return e.Err
}

// CreateEstimateInput is what the shell receives for a new rug
type CreateEstimateInput struct {
	JobID      string
	RugLabel   string
	ReportText string
	// RawAnnotations is the untrusted annotation output of the photo analysis
	// model; it may be empty or malformed.
	RawAnnotations []byte
}

// ServiceDraft overrides the defaults of a manually added service
type ServiceDraft struct {
	Name      *string
	Quantity  *int
	UnitPrice *float64
	Priority  *domain.Priority
}

// RugQuote is the priced selection of one rug
type RugQuote struct {
	EstimateID string
	RugLabel   string
	Services   []domain.ServiceItem
	Total      float64
}

// Quote is the priced selection of a job
type Quote struct {
	JobID         string
	Rugs          []RugQuote
	GrandTotal    float64
	SelectedCount int
}

// EditSessionResult describes the controller after a replayed edit session
type EditSessionResult struct {
	State       annotation.State
	Annotations []domain.Annotation
	Committed   []domain.Annotation
	Applied     int
	Ignored     int
	Saved       bool
}

// EstimateService defines the business logic around rug estimates
type EstimateService interface {
	// Parsing and estimate operations
	ParseReport(ctx context.Context, text string) []domain.ServiceItem
	CreateEstimate(ctx context.Context, input CreateEstimateInput) (*domain.RugEstimate, error)
	GetEstimate(ctx context.Context, estimateID string) (*domain.RugEstimate, error)
	ListJobEstimates(ctx context.Context, jobID string) ([]domain.RugEstimate, error)

	// Service list editing
	AddService(ctx context.Context, estimateID string, draft ServiceDraft) (*domain.ServiceItem, error)
	ReplaceServices(ctx context.Context, estimateID string, services []domain.ServiceItem) (*domain.RugEstimate, error)
	DeleteService(ctx context.Context, estimateID, serviceID string) error

	// Annotation operations
	GetAnnotations(ctx context.Context, estimateID string, photoIndex int) ([]domain.Annotation, error)
	SaveAnnotations(ctx context.Context, estimateID string, photoIndex int, annotations []domain.Annotation) ([]domain.Annotation, error)
	ReplayEditSession(ctx context.Context, estimateID string, photoIndex int, surface annotation.Surface, events []annotation.Event) (*EditSessionResult, error)

	// Selection and approval
	Quote(ctx context.Context, jobID string, selections map[string][]string) (*Quote, error)
	Approve(ctx context.Context, jobID string, selections map[string][]string) (*Quote, *domain.Approval, error)

	// Export operations
	ExportJob(ctx context.Context, jobID string) ([]byte, error)
	UploadJobExport(ctx context.Context, jobID string) (string, error)
}

// Config holds the optional collaborators of the estimate service
type Config struct {
	Exporter     *export.Service
	Uploader     storage.Uploader
	ExportPrefix string
	Logger       *slog.Logger
}

// EstimateServiceImpl implements the EstimateService interface
type EstimateServiceImpl struct {
	repository   repository.EstimateRepository
	parser       reportparser.Parser
	exporter     *export.Service
	uploader     storage.Uploader
	exportPrefix string
	logger       *slog.Logger
}

// NewEstimateService creates a new EstimateService
func NewEstimateService(repo repository.EstimateRepository, cfg Config) *EstimateServiceImpl {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	exporter := cfg.Exporter
	if exporter == nil {
		exporter = export.NewService(logger)
	}
	return &EstimateServiceImpl{
		repository:   repo,
		exporter:     exporter,
		uploader:     cfg.Uploader,
		exportPrefix: strings.Trim(cfg.ExportPrefix, "/"),
		logger:       logger,
	}
}

// ParseReport extracts the service list of a letter without storing it
func (s *EstimateServiceImpl) ParseReport(ctx context.Context, text string) []domain.ServiceItem {
	items := s.parser.Parse(text)
	s.logger.Debug("estimate.parse.ok", "services", len(items), "bytes", len(text))
	return items
}

// CreateEstimate parses the letter, decodes the annotation seed and stores a draft
func (s *EstimateServiceImpl) CreateEstimate(ctx context.Context, input CreateEstimateInput) (*domain.RugEstimate, error) {
	fields := map[string]string{}
	if strings.TrimSpace(input.JobID) == "" {
		fields["jobId"] = "jobId is required"
	}
	if len(fields) > 0 {
		return nil, &EstimateServiceError{Op: "create_estimate", Err: &domain.ValidationError{Fields: fields}}
	}

	estimate := &domain.RugEstimate{
		ID:         uuid.NewString(),
		JobID:      strings.TrimSpace(input.JobID),
		RugLabel:   strings.TrimSpace(input.RugLabel),
		ReportText: input.ReportText,
		Services:   s.parser.Parse(input.ReportText),
		Photos:     annotation.DecodeSeed(input.RawAnnotations, s.logger),
		Status:     domain.EstimateStatusDraft,
	}

	created, err := s.repository.CreateEstimate(ctx, estimate)
	if err != nil {
		return nil, &EstimateServiceError{Op: "create_estimate", Err: err}
	}

	s.logger.Info("estimate.create.ok",
		"estimate_id", created.ID,
		"job_id", created.JobID,
		"services", len(created.Services),
		"annotations", created.Photos.Count(),
	)
	return created, nil
}

// GetEstimate retrieves a rug estimate by id
func (s *EstimateServiceImpl) GetEstimate(ctx context.Context, estimateID string) (*domain.RugEstimate, error) {
	estimate, err := s.repository.GetEstimateByID(ctx, estimateID)
	if err != nil {
		return nil, &EstimateServiceError{Op: "get_estimate", Err: err}
	}
	return estimate, nil
}

// ListJobEstimates returns the rug estimates of a job
func (s *EstimateServiceImpl) ListJobEstimates(ctx context.Context, jobID string) ([]domain.RugEstimate, error) {
	estimates, err := s.repository.ListEstimatesByJob(ctx, jobID)
	if err != nil {
		return nil, &EstimateServiceError{Op: "list_estimates", Err: err}
	}
	return estimates, nil
}

// AddService appends a manual service line, "New Service" by default
func (s *EstimateServiceImpl) AddService(ctx context.Context, estimateID string, draft ServiceDraft) (*domain.ServiceItem, error) {
	item := domain.NewManualServiceItem()
	if draft.Name != nil {
		item.Name = strings.TrimSpace(*draft.Name)
	}
	if draft.Quantity != nil {
		item.Quantity = *draft.Quantity
	}
	if draft.UnitPrice != nil {
		item.UnitPrice = *draft.UnitPrice
	}
	if draft.Priority != nil {
		item.Priority = *draft.Priority
	}
	if err := item.Validate(); err != nil {
		return nil, &EstimateServiceError{Op: "add_service", Err: err}
	}

	_, err := s.repository.UpdateServices(ctx, estimateID, func(services []domain.ServiceItem) ([]domain.ServiceItem, error) {
		return append(services, item), nil
	})
	if err != nil {
		return nil, editError("add_service", err)
	}
	return &item, nil
}

// ReplaceServices stores an edited service list. Lines without an id get one.
func (s *EstimateServiceImpl) ReplaceServices(ctx context.Context, estimateID string, services []domain.ServiceItem) (*domain.RugEstimate, error) {
	cleaned := make([]domain.ServiceItem, len(services))
	seen := make(map[string]bool, len(services))
	fields := map[string]string{}
	for i, item := range services {
		item.Name = strings.TrimSpace(item.Name)
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.Priority == "" {
			item.Priority = domain.PriorityMedium
		}
		if seen[item.ID] {
			fields[fmt.Sprintf("services[%d].id", i)] = "duplicate service id"
		}
		seen[item.ID] = true

		var verr *domain.ValidationError
		if err := item.Validate(); errors.As(err, &verr) {
			for field, msg := range verr.Fields {
				fields[fmt.Sprintf("services[%d].%s", i, field)] = msg
			}
		}
		cleaned[i] = item
	}
	if len(fields) > 0 {
		return nil, &EstimateServiceError{Op: "replace_services", Err: &domain.ValidationError{Fields: fields}}
	}

	updated, err := s.repository.UpdateServices(ctx, estimateID, func([]domain.ServiceItem) ([]domain.ServiceItem, error) {
		return cleaned, nil
	})
	if err != nil {
		return nil, editError("replace_services", err)
	}
	return updated, nil
}

// DeleteService removes one service line
func (s *EstimateServiceImpl) DeleteService(ctx context.Context, estimateID, serviceID string) error {
	_, err := s.repository.UpdateServices(ctx, estimateID, func(services []domain.ServiceItem) ([]domain.ServiceItem, error) {
		i := domain.FindService(services, serviceID)
		if i < 0 {
			return nil, ErrServiceNotFound
		}
		return append(services[:i], services[i+1:]...), nil
	})
	if err != nil {
		return editError("delete_service", err)
	}
	return nil
}

// GetAnnotations returns the markers of one photo, empty when it has none
func (s *EstimateServiceImpl) GetAnnotations(ctx context.Context, estimateID string, photoIndex int) ([]domain.Annotation, error) {
	if err := validatePhotoIndex(photoIndex); err != nil {
		return nil, &EstimateServiceError{Op: "get_annotations", Err: err}
	}
	estimate, err := s.repository.GetEstimateByID(ctx, estimateID)
	if err != nil {
		return nil, &EstimateServiceError{Op: "get_annotations", Err: err}
	}
	return estimate.Photos.Lookup(photoIndex), nil
}

// SaveAnnotations commits the markers of one photo with coordinates clamped
func (s *EstimateServiceImpl) SaveAnnotations(ctx context.Context, estimateID string, photoIndex int, annotations []domain.Annotation) ([]domain.Annotation, error) {
	if err := validatePhotoIndex(photoIndex); err != nil {
		return nil, &EstimateServiceError{Op: "save_annotations", Err: err}
	}

	normalized := annotation.Normalize(annotations)
	estimate, err := s.repository.SavePhotoAnnotations(ctx, estimateID, photoIndex, normalized)
	if err != nil {
		s.logger.Warn("annotation.commit.failed", "estimate_id", estimateID, "photo_index", photoIndex, "error", err)
		return nil, &EstimateServiceError{Op: "save_annotations", Err: err}
	}

	s.logger.Info("annotation.commit.ok", "estimate_id", estimateID, "photo_index", photoIndex, "annotations", len(normalized))
	return estimate.Photos.Lookup(photoIndex), nil
}

// ReplayEditSession runs recorded pointer events through a marker controller.
// A save event commits through the repository.
func (s *EstimateServiceImpl) ReplayEditSession(ctx context.Context, estimateID string, photoIndex int, surface annotation.Surface, events []annotation.Event) (*EditSessionResult, error) {
	if err := validatePhotoIndex(photoIndex); err != nil {
		return nil, &EstimateServiceError{Op: "edit_session", Err: err}
	}
	estimate, err := s.repository.GetEstimateByID(ctx, estimateID)
	if err != nil {
		return nil, &EstimateServiceError{Op: "edit_session", Err: err}
	}

	saved := false
	ctrl := annotation.NewController(annotation.ControllerConfig{
		PhotoIndex:  photoIndex,
		Surface:     surface,
		Annotations: estimate.Photos.Lookup(photoIndex),
		Commit: func(photoIndex int, anns []domain.Annotation) error {
			if _, err := s.repository.SavePhotoAnnotations(ctx, estimateID, photoIndex, anns); err != nil {
				s.logger.Warn("annotation.commit.failed", "estimate_id", estimateID, "photo_index", photoIndex, "error", err)
				return err
			}
			saved = true
			return nil
		},
	})

	res, err := ctrl.Replay(events)
	if err != nil {
		return nil, &EstimateServiceError{Op: "edit_session", Err: err}
	}

	s.logger.Info("annotation.session.ok",
		"estimate_id", estimateID,
		"photo_index", photoIndex,
		"applied", res.Applied,
		"ignored", res.Ignored,
		"saved", saved,
	)
	return &EditSessionResult{
		State:       ctrl.State(),
		Annotations: ctrl.Annotations(),
		Committed:   ctrl.Committed(),
		Applied:     res.Applied,
		Ignored:     res.Ignored,
		Saved:       saved,
	}, nil
}

// Quote prices the client's selection. Rugs missing from selections keep all
// of their services selected.
func (s *EstimateServiceImpl) Quote(ctx context.Context, jobID string, selections map[string][]string) (*Quote, error) {
	estimates, engine, err := s.buildSelection(ctx, "quote", jobID, selections)
	if err != nil {
		return nil, err
	}
	return buildQuote(jobID, estimates, engine), nil
}

// Approve prices the selection and records it as the job's approval
func (s *EstimateServiceImpl) Approve(ctx context.Context, jobID string, selections map[string][]string) (*Quote, *domain.Approval, error) {
	if _, err := s.repository.GetApproval(ctx, jobID); err == nil {
		return nil, nil, &EstimateServiceError{Op: "approve", Err: ErrAlreadyApproved}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, &EstimateServiceError{Op: "approve", Err: err}
	}

	estimates, engine, err := s.buildSelection(ctx, "approve", jobID, selections)
	if err != nil {
		return nil, nil, err
	}
	quote := buildQuote(jobID, estimates, engine)

	var approval *domain.Approval
	err = engine.Approve(func(services []domain.ServiceItem, totalCost float64) error {
		rugTotals := make(map[string]float64, len(quote.Rugs))
		for _, rug := range quote.Rugs {
			rugTotals[rug.EstimateID] = rug.Total
		}
		approval = &domain.Approval{
			JobID:      jobID,
			Services:   services,
			TotalCost:  totalCost,
			ApprovedAt: time.Now().UTC(),
		}
		return s.repository.SaveApproval(ctx, approval, rugTotals)
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			err = ErrAlreadyApproved
		}
		return nil, nil, &EstimateServiceError{Op: "approve", Err: err}
	}

	s.logger.Info("estimate.approve.ok",
		"job_id", jobID,
		"rugs", len(quote.Rugs),
		"selected", quote.SelectedCount,
		"total_cost", quote.GrandTotal,
	)
	return quote, approval, nil
}

// ExportJob renders the job's estimates as an XLSX workbook
func (s *EstimateServiceImpl) ExportJob(ctx context.Context, jobID string) ([]byte, error) {
	estimates, err := s.jobEstimates(ctx, "export", jobID)
	if err != nil {
		return nil, err
	}
	data, err := s.exporter.JobWorkbook(jobID, estimates)
	if err != nil {
		return nil, &EstimateServiceError{Op: "export", Err: err}
	}
	return data, nil
}

// UploadJobExport renders the workbook and stores it in object storage
func (s *EstimateServiceImpl) UploadJobExport(ctx context.Context, jobID string) (string, error) {
	if s.uploader == nil {
		return "", &EstimateServiceError{Op: "upload_export", Err: storage.ErrNotConfigured}
	}
	key, err := exportKey(s.exportPrefix, jobID)
	if err != nil {
		return "", &EstimateServiceError{Op: "upload_export", Err: err}
	}
	data, err := s.ExportJob(ctx, jobID)
	if err != nil {
		return "", err
	}

	url, err := s.uploader.Upload(ctx, data, key, export.ContentType)
	if err != nil {
		return "", &EstimateServiceError{Op: "upload_export", Err: err}
	}

	s.logger.Info("export.upload.ok", "job_id", jobID, "key", key, "bytes", len(data))
	return url, nil
}

// editError tags a failed service edit; approved rugs report ErrEstimateLocked
func editError(op string, err error) error {
	if errors.Is(err, repository.ErrLocked) {
		err = ErrEstimateLocked
	}
	return &EstimateServiceError{Op: op, Err: err}
}

func (s *EstimateServiceImpl) jobEstimates(ctx context.Context, op, jobID string) ([]domain.RugEstimate, error) {
	estimates, err := s.repository.ListEstimatesByJob(ctx, jobID)
	if err != nil {
		return nil, &EstimateServiceError{Op: op, Err: err}
	}
	if len(estimates) == 0 {
		return nil, &EstimateServiceError{Op: op, Err: ErrNoEstimates}
	}
	return estimates, nil
}

func (s *EstimateServiceImpl) buildSelection(ctx context.Context, op, jobID string, selections map[string][]string) ([]domain.RugEstimate, *selection.Engine, error) {
	estimates, err := s.jobEstimates(ctx, op, jobID)
	if err != nil {
		return nil, nil, err
	}

	rugs := make([]selection.RugServices, len(estimates))
	known := make(map[string]bool, len(estimates))
	for i, est := range estimates {
		rugs[i] = selection.RugServices{RugID: est.ID, Services: est.Services}
		known[est.ID] = true
	}

	fields := map[string]string{}
	for rugID := range selections {
		if !known[rugID] {
			fields["selections."+rugID] = "rug is not part of this job"
		}
	}
	if len(fields) > 0 {
		return nil, nil, &EstimateServiceError{Op: op, Err: &domain.ValidationError{Fields: fields}}
	}

	engine := selection.New(rugs)
	for rugID, ids := range selections {
		engine.Apply(rugID, ids)
	}
	return estimates, engine, nil
}

func buildQuote(jobID string, estimates []domain.RugEstimate, engine *selection.Engine) *Quote {
	quote := &Quote{
		JobID:         jobID,
		Rugs:          make([]RugQuote, len(estimates)),
		GrandTotal:    engine.GrandTotal(),
		SelectedCount: engine.SelectedCount(),
	}
	for i, est := range estimates {
		quote.Rugs[i] = RugQuote{
			EstimateID: est.ID,
			RugLabel:   est.RugLabel,
			Services:   engine.Selected(est.ID),
			Total:      engine.Total(est.ID),
		}
	}
	return quote
}

// exportKey places a job's workbook under prefix. Job ids that would leave
// the prefix once the key is cleaned are rejected.
func exportKey(prefix, jobID string) (string, error) {
	if jobID == "" || jobID == "." || jobID == ".." || strings.ContainsAny(jobID, `/\`) {
		return "", &domain.ValidationError{Fields: map[string]string{"jobId": "jobId cannot be used as an object key"}}
	}
	return path.Join(prefix, jobID, export.FileName(jobID)), nil
}

func validatePhotoIndex(photoIndex int) error {
	if photoIndex < 0 {
		return &domain.ValidationError{Fields: map[string]string{"photoIndex": "photoIndex must not be negative"}}
	}
	return nil
}
