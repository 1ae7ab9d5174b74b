// Package selection tracks which services a client keeps on each rug and
// prices the result. Mandatory services (cleaning and washing) are always
// selected.
package selection

import (
	"errors"

	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
	"github.com/ridwanfathin/rug-estimate-service/internal/money"
)

// ErrAlreadyApproved is returned by a second call to Approve.
var ErrAlreadyApproved = errors.New("selection already approved")

// RugServices is the service list of one rug.
type RugServices struct {
	RugID    string
	Services []domain.ServiceItem
}

// ApproveFunc receives the selected services of every rug and their total.
type ApproveFunc func(services []domain.ServiceItem, totalCost float64) error

// Engine holds the selection state of a job. It is not safe for concurrent use.
type Engine struct {
	order    []string
	services map[string][]domain.ServiceItem
	selected map[string]map[string]struct{}
	approved bool
}

// New starts with every service of every rug selected.
func New(rugs []RugServices) *Engine {
	e := &Engine{
		services: make(map[string][]domain.ServiceItem, len(rugs)),
		selected: make(map[string]map[string]struct{}, len(rugs)),
	}
	for _, rug := range rugs {
		if _, seen := e.services[rug.RugID]; !seen {
			e.order = append(e.order, rug.RugID)
		}
		e.services[rug.RugID] = domain.CloneServices(rug.Services)
		e.ToggleAll(rug.RugID, true)
	}
	return e
}

// RugIDs returns the rugs in the order they were given.
func (e *Engine) RugIDs() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Toggle flips a service in or out of the selection. Mandatory and unknown
// services are left alone.
func (e *Engine) Toggle(rugID, serviceID string) {
	item, ok := e.find(rugID, serviceID)
	if !ok || item.IsMandatory() {
		return
	}
	set := e.selected[rugID]
	if _, on := set[serviceID]; on {
		delete(set, serviceID)
	} else {
		set[serviceID] = struct{}{}
	}
}

// ToggleAll selects every service of a rug, or only its mandatory ones.
func (e *Engine) ToggleAll(rugID string, selectAll bool) {
	services, ok := e.services[rugID]
	if !ok {
		return
	}
	set := make(map[string]struct{}, len(services))
	for _, s := range services {
		if selectAll || s.IsMandatory() {
			set[s.ID] = struct{}{}
		}
	}
	e.selected[rugID] = set
}

// Apply sets a rug's selection to serviceIDs plus its mandatory services.
// Unknown ids are ignored.
func (e *Engine) Apply(rugID string, serviceIDs []string) {
	e.ToggleAll(rugID, false)
	set, ok := e.selected[rugID]
	if !ok {
		return
	}
	for _, id := range serviceIDs {
		if _, known := e.find(rugID, id); known {
			set[id] = struct{}{}
		}
	}
}

// IsSelected reports whether a service is currently selected.
func (e *Engine) IsSelected(rugID, serviceID string) bool {
	_, on := e.selected[rugID][serviceID]
	return on
}

// Selected returns the selected services of a rug in list order.
func (e *Engine) Selected(rugID string) []domain.ServiceItem {
	out := []domain.ServiceItem{}
	for _, s := range e.services[rugID] {
		if e.IsSelected(rugID, s.ID) {
			out = append(out, s)
		}
	}
	return out
}

// Total is the price of a rug's selected services, rounded to cents.
func (e *Engine) Total(rugID string) float64 {
	sum := 0.0
	for _, s := range e.Selected(rugID) {
		sum += s.LineTotal()
	}
	return money.Round2(sum)
}

// GrandTotal sums Total over all rugs.
func (e *Engine) GrandTotal() float64 {
	sum := 0.0
	for _, id := range e.order {
		sum += e.Total(id)
	}
	return money.Round2(sum)
}

// SelectedCount is the number of selected services across all rugs.
func (e *Engine) SelectedCount() int {
	n := 0
	for _, set := range e.selected {
		n += len(set)
	}
	return n
}

// Approve hands the final selection to onApprove. It succeeds at most once;
// a failed callback leaves the engine unapproved so the caller can retry.
func (e *Engine) Approve(onApprove ApproveFunc) error {
	if e.approved {
		return ErrAlreadyApproved
	}

	var chosen []domain.ServiceItem
	for _, id := range e.order {
		chosen = append(chosen, e.Selected(id)...)
	}
	if chosen == nil {
		chosen = []domain.ServiceItem{}
	}

	if onApprove != nil {
		if err := onApprove(chosen, e.GrandTotal()); err != nil {
			return err
		}
	}
	e.approved = true
	return nil
}

func (e *Engine) find(rugID, serviceID string) (domain.ServiceItem, bool) {
	for _, s := range e.services[rugID] {
		if s.ID == serviceID {
			return s, true
		}
	}
	return domain.ServiceItem{}, false
}
