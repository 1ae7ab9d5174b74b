package domain

import (
	"time"
)

// EstimateStatus is the lifecycle state of a rug estimate.
type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "draft"
	EstimateStatusApproved EstimateStatus = "approved"
)

func (s EstimateStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known status.
func (s EstimateStatus) IsValid() bool {
	return s == EstimateStatusDraft || s == EstimateStatusApproved
}

// RugEstimate is the persisted estimate of one rug within a job
type RugEstimate struct {
	ID         string         `json:"id"`
	JobID      string         `json:"jobId"`
	RugLabel   string         `json:"rugLabel"`
	ReportText string         `json:"reportText"`
	Services   []ServiceItem  `json:"services"`
	Photos     PhotoSet       `json:"photos"`
	Status     EstimateStatus `json:"status"`
	TotalCost  float64        `json:"totalCost"`
	ApprovedAt *time.Time     `json:"approvedAt,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// FindService returns the index of the service with the given id, or -1.
func (r *RugEstimate) FindService(serviceID string) int {
	return FindService(r.Services, serviceID)
}

// Approval records what a client agreed to pay for a job
type Approval struct {
	JobID      string        `json:"jobId"`
	Services   []ServiceItem `json:"services"`
	TotalCost  float64       `json:"totalCost"`
	ApprovedAt time.Time     `json:"approvedAt"`
}
