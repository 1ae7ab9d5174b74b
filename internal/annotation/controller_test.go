package annotation

import (
	"errors"
	"testing"

	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeRecorder struct {
	calls [][]domain.Annotation
}

func (r *changeRecorder) record(_ int, anns []domain.Annotation) {
	r.calls = append(r.calls, anns)
}

// surface maps pointer pixels 1:1 onto percentages after a 50px offset.
var testSurface = Surface{OriginX: 50, OriginY: 50, Width: 100, Height: 100}

func newTestController(commit CommitFunc, rec *changeRecorder, seed ...domain.Annotation) *Controller {
	return NewController(ControllerConfig{
		PhotoIndex:  2,
		Surface:     testSurface,
		Annotations: seed,
		OnChange:    rec.record,
		Commit:      commit,
	})
}

func TestSurfaceToPercent(t *testing.T) {
	s := Surface{OriginX: 10, OriginY: 20, Width: 200, Height: 50}

	x, y := s.ToPercent(110, 45)
	assert.Equal(t, 50.0, x)
	assert.Equal(t, 50.0, y)

	x, y = s.ToPercent(0, 500)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 100.0, y)

	x, y = Surface{}.ToPercent(10, 10)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
}

func TestViewingIgnoresMutations(t *testing.T) {
	rec := &changeRecorder{}
	c := newTestController(nil, rec, domain.Annotation{Label: "Stain", X: 5, Y: 5})

	assert.ErrorIs(t, c.Click(60, 60), ErrIgnoredEvent)
	assert.ErrorIs(t, c.PointerDown(0), ErrIgnoredEvent)
	assert.ErrorIs(t, c.PointerMove(60, 60), ErrIgnoredEvent)
	assert.ErrorIs(t, c.Delete(0), ErrIgnoredEvent)
	assert.ErrorIs(t, c.Save(), ErrIgnoredEvent)

	label, ok := c.Hover(0)
	assert.True(t, ok)
	assert.Equal(t, "Stain", label)
	assert.Equal(t, StateViewing, c.State())
	assert.Empty(t, rec.calls)
}

func TestClickAddsAtPointer(t *testing.T) {
	rec := &changeRecorder{}
	c := newTestController(nil, rec)
	require.NoError(t, c.EnterEdit())

	require.NoError(t, c.Click(75, 90))
	require.NoError(t, c.Click(500, -10))

	anns := c.Annotations()
	require.Len(t, anns, 2)
	assert.Equal(t, domain.Annotation{Label: "Issue 1", Location: "on rug", X: 25, Y: 40}, anns[0])
	assert.Equal(t, 100.0, anns[1].X)
	assert.Equal(t, 0.0, anns[1].Y)
	assert.Equal(t, StateEditingIdle, c.State())
	assert.Len(t, rec.calls, 2)
	assert.Empty(t, c.Committed(), "nothing committed before save")
}

func TestDragLifecycle(t *testing.T) {
	rec := &changeRecorder{}
	c := newTestController(nil, rec, domain.Annotation{Label: "Issue 1", X: 10, Y: 10})
	require.NoError(t, c.EnterEdit())

	require.NoError(t, c.PointerDown(0))
	idx, dragging := c.DragIndex()
	assert.True(t, dragging)
	assert.Equal(t, 0, idx)
	assert.Equal(t, StateDragging, c.State())

	assert.ErrorIs(t, c.Click(60, 60), ErrIgnoredEvent, "no adds while dragging")

	require.NoError(t, c.PointerMove(80, 70))
	require.NoError(t, c.PointerMove(90, 95))
	assert.Equal(t, 40.0, c.Annotations()[0].X)
	assert.Equal(t, 45.0, c.Annotations()[0].Y)

	require.NoError(t, c.PointerUp())
	assert.Equal(t, StateEditingIdle, c.State())
	assert.ErrorIs(t, c.PointerMove(0, 0), ErrIgnoredEvent)

	require.NoError(t, c.PointerDown(0))
	require.NoError(t, c.PointerLeave())
	assert.Equal(t, StateEditingIdle, c.State())
	assert.Len(t, rec.calls, 2)
}

func TestPointerDownOutOfRange(t *testing.T) {
	c := newTestController(nil, &changeRecorder{})
	require.NoError(t, c.EnterEdit())

	err := c.PointerDown(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, StateEditingIdle, c.State())
}

func TestDeleteWhileDragging(t *testing.T) {
	seed := []domain.Annotation{{Label: "A"}, {Label: "B"}, {Label: "C"}}

	t.Run("earlier marker shifts drag index", func(t *testing.T) {
		c := newTestController(nil, &changeRecorder{}, seed...)
		require.NoError(t, c.EnterEdit())
		require.NoError(t, c.PointerDown(2))

		require.NoError(t, c.Delete(0))

		idx, dragging := c.DragIndex()
		assert.True(t, dragging)
		assert.Equal(t, 1, idx)
		require.NoError(t, c.PointerMove(60, 60))
		assert.Equal(t, "C", c.Annotations()[1].Label)
		assert.Equal(t, 10.0, c.Annotations()[1].X)
	})

	t.Run("dragged marker ends drag", func(t *testing.T) {
		c := newTestController(nil, &changeRecorder{}, seed...)
		require.NoError(t, c.EnterEdit())
		require.NoError(t, c.PointerDown(1))

		require.NoError(t, c.Delete(1))

		assert.Equal(t, StateEditingIdle, c.State())
		assert.Equal(t, []string{"A", "C"}, labels(c.Annotations()))
	})
}

func TestCancelRevertsToCommitted(t *testing.T) {
	rec := &changeRecorder{}
	c := newTestController(nil, rec, domain.Annotation{Label: "Issue 1", X: 10, Y: 10})
	require.NoError(t, c.EnterEdit())
	require.NoError(t, c.Click(60, 60))
	require.NoError(t, c.Relabel(0, "Fringe loss"))

	require.NoError(t, c.Cancel())

	assert.Equal(t, StateViewing, c.State())
	assert.Equal(t, []string{"Issue 1"}, labels(c.Annotations()))
}

func TestSaveCommits(t *testing.T) {
	var committedIndex int
	var committed []domain.Annotation
	commit := func(photoIndex int, anns []domain.Annotation) error {
		committedIndex = photoIndex
		committed = anns
		return nil
	}
	rec := &changeRecorder{}
	c := newTestController(commit, rec)

	require.NoError(t, c.EnterEdit())
	require.NoError(t, c.Click(60, 60))
	require.NoError(t, c.Save())

	assert.Equal(t, 2, committedIndex)
	assert.Equal(t, []string{"Issue 1"}, labels(committed))
	assert.Equal(t, StateViewing, c.State())
	assert.Equal(t, committed, c.Committed())
	require.Len(t, rec.calls, 2)
	assert.Equal(t, committed, rec.calls[1], "save notifies with the committed list")
}

func TestSaveFailureKeepsStagedChanges(t *testing.T) {
	boom := errors.New("network down")
	fail := true
	commit := func(int, []domain.Annotation) error {
		if fail {
			return boom
		}
		return nil
	}
	c := newTestController(commit, &changeRecorder{})
	require.NoError(t, c.EnterEdit())
	require.NoError(t, c.Click(60, 60))

	err := c.Save()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, c.Editing())
	assert.Len(t, c.Annotations(), 1)
	assert.Empty(t, c.Committed())

	fail = false
	require.NoError(t, c.Save())
	assert.Len(t, c.Committed(), 1)
}

func TestEnterEditSnapshotsCommitted(t *testing.T) {
	c := newTestController(nil, &changeRecorder{}, domain.Annotation{Label: "Issue 1", X: 10, Y: 10})
	require.NoError(t, c.EnterEdit())
	assert.ErrorIs(t, c.EnterEdit(), ErrIgnoredEvent)

	require.NoError(t, c.Delete(0))
	assert.Empty(t, c.Annotations())
	assert.Len(t, c.Committed(), 1)
}

func TestReplay(t *testing.T) {
	var saved []domain.Annotation
	c := newTestController(func(_ int, anns []domain.Annotation) error {
		saved = anns
		return nil
	}, &changeRecorder{})

	res, err := c.Replay([]Event{
		{Type: EventClick, X: 60, Y: 60},
		{Type: EventEnterEdit},
		{Type: EventClick, X: 60, Y: 60},
		{Type: EventClick, X: 70, Y: 70},
		{Type: EventPointerDown, Index: 0},
		{Type: EventPointerMove, X: 150, Y: 150},
		{Type: EventPointerUp},
		{Type: EventRelabel, Index: 1, Label: "Wear"},
		{Type: EventSave},
	})
	require.NoError(t, err)

	assert.Equal(t, ReplayResult{Applied: 8, Ignored: 1}, res)
	require.Len(t, saved, 2)
	assert.Equal(t, domain.Annotation{Label: "Issue 1", Location: "on rug", X: 100, Y: 100}, saved[0])
	assert.Equal(t, "Wear", saved[1].Label)
}

func TestReplayStopsOnErrors(t *testing.T) {
	c := newTestController(nil, &changeRecorder{})

	_, err := c.Replay([]Event{{Type: EventEnterEdit}, {Type: EventDelete, Index: 4}})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Contains(t, err.Error(), "event 1 (delete)")

	_, err = c.Replay([]Event{{Type: "doubleClick"}})
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func labels(anns []domain.Annotation) []string {
	out := make([]string, len(anns))
	for i, a := range anns {
		out[i] = a.Label
	}
	return out
}
