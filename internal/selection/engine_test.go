package selection

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func svc(id, name string, qty int, price float64) domain.ServiceItem {
	return domain.ServiceItem{ID: id, Name: name, Quantity: qty, UnitPrice: price, Priority: domain.PriorityMedium}
}

func testRugs() []RugServices {
	return []RugServices{
		{RugID: "rug-1", Services: []domain.ServiceItem{
			svc("r1-clean", "Deep Cleaning", 1, 120),
			svc("r1-fringe", "Fringe Repair", 2, 45.50),
			svc("r1-moth", "Moth Treatment", 1, 60),
		}},
		{RugID: "rug-2", Services: []domain.ServiceItem{
			svc("r2-wash", "Hand Wash", 1, 80),
			svc("r2-pad", "Padding", 1, 35.25),
		}},
	}
}

func mandatoryIDs(rugs []RugServices) map[string][]string {
	out := map[string][]string{}
	for _, r := range rugs {
		for _, s := range r.Services {
			if s.IsMandatory() {
				out[r.RugID] = append(out[r.RugID], s.ID)
			}
		}
	}
	return out
}

func TestInitialStateSelectsEverything(t *testing.T) {
	e := New(testRugs())

	assert.Equal(t, 5, e.SelectedCount())
	assert.Equal(t, 271.0, e.Total("rug-1"))
	assert.Equal(t, 115.25, e.Total("rug-2"))
	assert.Equal(t, 386.25, e.GrandTotal())
	assert.Equal(t, []string{"rug-1", "rug-2"}, e.RugIDs())
}

func TestToggle(t *testing.T) {
	e := New(testRugs())

	e.Toggle("rug-1", "r1-fringe")
	assert.False(t, e.IsSelected("rug-1", "r1-fringe"))
	assert.Equal(t, 180.0, e.Total("rug-1"))

	e.Toggle("rug-1", "r1-fringe")
	assert.True(t, e.IsSelected("rug-1", "r1-fringe"))

	e.Toggle("rug-1", "r1-clean")
	assert.True(t, e.IsSelected("rug-1", "r1-clean"), "mandatory services cannot be toggled off")

	e.Toggle("rug-1", "missing")
	e.Toggle("rug-9", "r1-fringe")
	assert.Equal(t, 5, e.SelectedCount())
}

func TestToggleAllFalseLeavesMandatory(t *testing.T) {
	e := New(testRugs())

	e.ToggleAll("rug-1", true)
	e.ToggleAll("rug-1", false)

	assert.Equal(t, []domain.ServiceItem{svc("r1-clean", "Deep Cleaning", 1, 120)}, e.Selected("rug-1"))
	assert.Equal(t, 120.0, e.Total("rug-1"))
	assert.Equal(t, 4, e.SelectedCount())
}

func TestTotalsWithMandatoryOnlyRug(t *testing.T) {
	e := New(testRugs())
	e.ToggleAll("rug-1", false)
	e.Toggle("rug-2", "r2-pad")

	assert.Equal(t, 120.00, e.Total("rug-1"))
	assert.Equal(t, 80.0, e.Total("rug-2"))
	assert.Equal(t, 200.0, e.GrandTotal())
	assert.Equal(t, e.Total("rug-1")+e.Total("rug-2"), e.GrandTotal())
}

func TestMandatoryInvariantUnderRandomOps(t *testing.T) {
	rugs := testRugs()
	mandatory := mandatoryIDs(rugs)
	e := New(rugs)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		rug := rugs[rng.Intn(len(rugs))]
		switch rng.Intn(4) {
		case 0:
			e.ToggleAll(rug.RugID, rng.Intn(2) == 0)
		case 1:
			e.Apply(rug.RugID, nil)
		default:
			e.Toggle(rug.RugID, rug.Services[rng.Intn(len(rug.Services))].ID)
		}

		for rugID, ids := range mandatory {
			for _, id := range ids {
				require.True(t, e.IsSelected(rugID, id), "step %d lost %s", i, id)
			}
		}
	}
}

func TestApply(t *testing.T) {
	e := New(testRugs())

	e.Apply("rug-1", []string{"r1-moth", "unknown"})

	assert.Equal(t, []string{"r1-clean", "r1-moth"}, ids(e.Selected("rug-1")))
	assert.Equal(t, 180.0, e.Total("rug-1"))
}

func TestRoundsToCents(t *testing.T) {
	e := New([]RugServices{{RugID: "r", Services: []domain.ServiceItem{
		svc("a", "Spot Cleaning", 3, 0.1),
		svc("b", "Odor Treatment", 1, 0.2),
	}}})

	assert.Equal(t, 0.5, e.Total("r"))
}

func TestApprove(t *testing.T) {
	e := New(testRugs())
	e.ToggleAll("rug-2", false)

	var gotServices []domain.ServiceItem
	var gotTotal float64
	err := e.Approve(func(services []domain.ServiceItem, total float64) error {
		gotServices = services
		gotTotal = total
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"r1-clean", "r1-fringe", "r1-moth", "r2-wash"}, ids(gotServices))
	assert.Equal(t, 351.0, gotTotal)
	assert.ErrorIs(t, e.Approve(nil), ErrAlreadyApproved)
}

func TestApproveFailureCanRetry(t *testing.T) {
	e := New(testRugs())
	boom := errors.New("checkout unavailable")

	assert.ErrorIs(t, e.Approve(func([]domain.ServiceItem, float64) error { return boom }), boom)
	assert.NoError(t, e.Approve(nil))
}

func ids(items []domain.ServiceItem) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = s.ID
	}
	return out
}
