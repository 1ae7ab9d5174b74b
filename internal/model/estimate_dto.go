package model

import (
	"encoding/json"
	"time"

	"github.com/ridwanfathin/rug-estimate-service/internal/annotation"
	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
	"github.com/ridwanfathin/rug-estimate-service/internal/money"
	"github.com/ridwanfathin/rug-estimate-service/internal/service"
)

// ParseRequest carries the letter text to parse. Empty text yields no services.
type ParseRequest struct {
	Text string `json:"text"`
}

// ParseResponse lists the services found in a letter
type ParseResponse struct {
	Services []ServiceItemResponse `json:"services"`
	Count    int                   `json:"count"`
}

// CreateRugRequest creates a rug estimate from a report letter
type CreateRugRequest struct {
	JobID      string `json:"jobId" binding:"required"`
	RugLabel   string `json:"rugLabel"`
	ReportText string `json:"reportText"`
	// Annotations is the raw photo analysis output; any JSON is accepted.
	Annotations json.RawMessage `json:"annotations,omitempty" swaggertype:"object"`
}

// ToInput converts the request to the service input
func (r CreateRugRequest) ToInput() service.CreateEstimateInput {
	return service.CreateEstimateInput{
		JobID:          r.JobID,
		RugLabel:       r.RugLabel,
		ReportText:     r.ReportText,
		RawAnnotations: r.Annotations,
	}
}

// AddServiceRequest adds a manual service line. Omitted fields get defaults.
type AddServiceRequest struct {
	Name      *string  `json:"name,omitempty"`
	Quantity  *int     `json:"quantity,omitempty"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
	Priority  *string  `json:"priority,omitempty" enums:"high,medium,low"`
}

// ToDraft converts the request to a service draft
func (r AddServiceRequest) ToDraft() service.ServiceDraft {
	draft := service.ServiceDraft{
		Name:      r.Name,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
	}
	if r.Priority != nil {
		p := domain.Priority(*r.Priority)
		draft.Priority = &p
	}
	return draft
}

// ServiceItemRequest is one edited service line
type ServiceItemRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Priority  string  `json:"priority" enums:"high,medium,low"`
}

// ReplaceServicesRequest replaces the service list of a rug
type ReplaceServicesRequest struct {
	Services []ServiceItemRequest `json:"services" binding:"required"`
}

// ToDomain converts the request lines to domain service items
func (r ReplaceServicesRequest) ToDomain() []domain.ServiceItem {
	items := make([]domain.ServiceItem, len(r.Services))
	for i, s := range r.Services {
		items[i] = domain.ServiceItem{
			ID:        s.ID,
			Name:      s.Name,
			Quantity:  s.Quantity,
			UnitPrice: s.UnitPrice,
			Priority:  domain.Priority(s.Priority),
		}
	}
	return items
}

// ServiceItemResponse is a service line with its derived values
type ServiceItemResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Priority  string  `json:"priority"`
	Mandatory bool    `json:"mandatory"`
	LineTotal float64 `json:"lineTotal"`
}

// NewServiceItemResponses converts domain service items
func NewServiceItemResponses(items []domain.ServiceItem) []ServiceItemResponse {
	out := make([]ServiceItemResponse, len(items))
	for i, s := range items {
		out[i] = ServiceItemResponse{
			ID:        s.ID,
			Name:      s.Name,
			Quantity:  s.Quantity,
			UnitPrice: s.UnitPrice,
			Priority:  s.Priority.String(),
			Mandatory: s.IsMandatory(),
			LineTotal: s.LineTotal(),
		}
	}
	return out
}

// RugEstimateResponse represents a rug estimate
type RugEstimateResponse struct {
	ID                string                    `json:"id"`
	JobID             string                    `json:"jobId"`
	RugLabel          string                    `json:"rugLabel"`
	ReportText        string                    `json:"reportText"`
	Services          []ServiceItemResponse     `json:"services"`
	Photos            []domain.PhotoAnnotations `json:"photos"`
	Status            string                    `json:"status"`
	Subtotal          float64                   `json:"subtotal"`
	SubtotalFormatted string                    `json:"subtotalFormatted"`
	TotalCost         float64                   `json:"totalCost"`
	ApprovedAt        *time.Time                `json:"approvedAt,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
}

// FromDomain fills the response from a domain estimate
func (r *RugEstimateResponse) FromDomain(est *domain.RugEstimate) {
	var subtotal float64
	for _, s := range est.Services {
		subtotal += s.LineTotal()
	}
	subtotal = money.Round2(subtotal)

	photos := []domain.PhotoAnnotations(est.Photos)
	if photos == nil {
		photos = []domain.PhotoAnnotations{}
	}

	r.ID = est.ID
	r.JobID = est.JobID
	r.RugLabel = est.RugLabel
	r.ReportText = est.ReportText
	r.Services = NewServiceItemResponses(est.Services)
	r.Photos = photos
	r.Status = est.Status.String()
	r.Subtotal = subtotal
	r.SubtotalFormatted = money.Format(subtotal)
	r.TotalCost = est.TotalCost
	r.ApprovedAt = est.ApprovedAt
	r.CreatedAt = est.CreatedAt
	r.UpdatedAt = est.UpdatedAt
}

// RugListResponse lists the rugs of a job
type RugListResponse struct {
	Data  []RugEstimateResponse `json:"data"`
	Count int                   `json:"count"`
}

// NewRugListResponse converts a list of domain estimates
func NewRugListResponse(estimates []domain.RugEstimate) RugListResponse {
	data := make([]RugEstimateResponse, len(estimates))
	for i := range estimates {
		data[i].FromDomain(&estimates[i])
	}
	return RugListResponse{Data: data, Count: len(data)}
}

// AnnotationsRequest commits the markers of one photo
type AnnotationsRequest struct {
	Annotations []domain.Annotation `json:"annotations" binding:"required"`
}

// AnnotationsResponse lists the markers of one photo
type AnnotationsResponse struct {
	PhotoIndex  int                 `json:"photoIndex"`
	Annotations []domain.Annotation `json:"annotations"`
}

// EditSessionRequest replays recorded pointer events on a photo
type EditSessionRequest struct {
	Surface annotation.Surface `json:"surface"`
	Events  []annotation.Event `json:"events" binding:"required"`
}

// EditSessionResponse describes the editor after the replay
type EditSessionResponse struct {
	PhotoIndex  int                 `json:"photoIndex"`
	State       string              `json:"state"`
	Annotations []domain.Annotation `json:"annotations"`
	Committed   []domain.Annotation `json:"committed"`
	Applied     int                 `json:"applied"`
	Ignored     int                 `json:"ignored"`
	Saved       bool                `json:"saved"`
}

// NewEditSessionResponse converts a replay result
func NewEditSessionResponse(photoIndex int, res *service.EditSessionResult) EditSessionResponse {
	return EditSessionResponse{
		PhotoIndex:  photoIndex,
		State:       res.State.String(),
		Annotations: res.Annotations,
		Committed:   res.Committed,
		Applied:     res.Applied,
		Ignored:     res.Ignored,
		Saved:       res.Saved,
	}
}

// SelectionRequest maps rug ids to the optional service ids the client keeps.
// Rugs that are missing keep every service.
type SelectionRequest struct {
	Selections map[string][]string `json:"selections"`
}

// RugQuoteResponse is the priced selection of one rug
type RugQuoteResponse struct {
	RugID          string                `json:"rugId"`
	RugLabel       string                `json:"rugLabel"`
	Services       []ServiceItemResponse `json:"services"`
	Total          float64               `json:"total"`
	TotalFormatted string                `json:"totalFormatted"`
}

// QuoteResponse is the priced selection of a job
type QuoteResponse struct {
	JobID               string             `json:"jobId"`
	Rugs                []RugQuoteResponse `json:"rugs"`
	GrandTotal          float64            `json:"grandTotal"`
	GrandTotalFormatted string             `json:"grandTotalFormatted"`
	SelectedCount       int                `json:"selectedCount"`
}

// NewQuoteResponse converts a service quote
func NewQuoteResponse(q *service.Quote) QuoteResponse {
	rugs := make([]RugQuoteResponse, len(q.Rugs))
	for i, rug := range q.Rugs {
		rugs[i] = RugQuoteResponse{
			RugID:          rug.EstimateID,
			RugLabel:       rug.RugLabel,
			Services:       NewServiceItemResponses(rug.Services),
			Total:          rug.Total,
			TotalFormatted: money.Format(rug.Total),
		}
	}
	return QuoteResponse{
		JobID:               q.JobID,
		Rugs:                rugs,
		GrandTotal:          q.GrandTotal,
		GrandTotalFormatted: money.Format(q.GrandTotal),
		SelectedCount:       q.SelectedCount,
	}
}

// ApprovalResponse is returned once a job is approved
type ApprovalResponse struct {
	JobID      string        `json:"jobId"`
	TotalCost  float64       `json:"totalCost"`
	ApprovedAt time.Time     `json:"approvedAt"`
	Quote      QuoteResponse `json:"quote"`
}

// NewApprovalResponse converts an approval and its quote
func NewApprovalResponse(q *service.Quote, approval *domain.Approval) ApprovalResponse {
	return ApprovalResponse{
		JobID:      approval.JobID,
		TotalCost:  approval.TotalCost,
		ApprovedAt: approval.ApprovedAt,
		Quote:      NewQuoteResponse(q),
	}
}

// UploadResponse carries the location of an uploaded export
type UploadResponse struct {
	URL string `json:"url"`
}
