package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Priority ranks a service line for the client.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) String() string {
	return string(p)
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// DefaultServiceName is used for services added by hand.
const DefaultServiceName = "New Service"

// ServiceItem is one priced line of a rug estimate
type ServiceItem struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unitPrice"`
	Priority  Priority `json:"priority"`
}

// NewServiceItem returns a fresh line with quantity 1 and medium priority.
func NewServiceItem(name string, unitPrice float64) ServiceItem {
	return ServiceItem{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Quantity:  1,
		UnitPrice: unitPrice,
		Priority:  PriorityMedium,
	}
}

// NewManualServiceItem is the blank line created by "add service".
func NewManualServiceItem() ServiceItem {
	return NewServiceItem(DefaultServiceName, 0)
}

// LineTotal returns quantity times unit price.
func (s ServiceItem) LineTotal() float64 {
	return float64(s.Quantity) * s.UnitPrice
}

// IsMandatory reports whether the client may not deselect this service.
func (s ServiceItem) IsMandatory() bool {
	return IsMandatory(s.Name)
}

// IsMandatory is the mandatory-service predicate: cleaning and washing
// services cannot be deselected.
func IsMandatory(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "clean") || strings.Contains(lower, "wash")
}

// Validate checks the invariants of an edited service line.
func (s ServiceItem) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(s.Name) == "" {
		fields["name"] = "name must not be empty"
	}
	if s.Quantity < 1 {
		fields["quantity"] = "quantity must be at least 1"
	}
	if s.UnitPrice < 0 {
		fields["unitPrice"] = "unitPrice must not be negative"
	}
	if !s.Priority.IsValid() {
		fields["priority"] = fmt.Sprintf("priority must be one of high, medium, low (got %q)", s.Priority)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ValidationError lists the field violations of a rejected value.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FindService returns the index of the service with the given id, or -1.
func FindService(items []ServiceItem, serviceID string) int {
	for i, s := range items {
		if s.ID == serviceID {
			return i
		}
	}
	return -1
}

// CloneServices returns a copy of items that shares no backing array.
func CloneServices(items []ServiceItem) []ServiceItem {
	out := make([]ServiceItem, len(items))
	copy(out, items)
	return out
}
