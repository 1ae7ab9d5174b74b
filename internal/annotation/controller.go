package annotation

import (
	"errors"
	"fmt"

	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
)

// State is the interaction state of a photo's marker surface.
type State int

const (
	StateViewing State = iota
	StateEditingIdle
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditingIdle:
		return "editing"
	case StateDragging:
		return "dragging"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrIgnoredEvent is returned for events the current state does not handle.
	// The controller is left unchanged.
	ErrIgnoredEvent = errors.New("event ignored in current state")

	// ErrUnknownEvent is returned by Apply for an unrecognised event type.
	ErrUnknownEvent = errors.New("unknown event type")
)

// Surface is the rendered bounds of a photo in pointer coordinates.
type Surface struct {
	OriginX float64 `json:"originX"`
	OriginY float64 `json:"originY"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// ToPercent converts a pointer position to clamped percentage coordinates.
func (s Surface) ToPercent(px, py float64) (float64, float64) {
	return toPercent(px, s.OriginX, s.Width), toPercent(py, s.OriginY, s.Height)
}

func toPercent(p, origin, size float64) float64 {
	if size <= 0 {
		return 0
	}
	return Clamp((p - origin) / size * 100)
}

// ChangeFunc observes the marker list of a photo after each applied change.
type ChangeFunc func(photoIndex int, anns []domain.Annotation)

// CommitFunc persists the marker list of a photo. A returned error keeps the
// controller in edit mode with its staged changes.
type CommitFunc func(photoIndex int, anns []domain.Annotation) error

// ControllerConfig configures a Controller
type ControllerConfig struct {
	PhotoIndex  int
	Surface     Surface
	Annotations []domain.Annotation
	OnChange    ChangeFunc
	Commit      CommitFunc
}

// Controller turns pointer events on one photo into marker edits.
//
// Edits happen on a staging copy taken by EnterEdit. Save hands the copy to
// the commit callback and Cancel throws it away. A Controller is not safe for
// concurrent use.
type Controller struct {
	photoIndex int
	surface    Surface
	committed  []domain.Annotation
	staged     []domain.Annotation
	state      State
	dragIndex  int
	onChange   ChangeFunc
	commit     CommitFunc
}

// NewController returns a controller in the viewing state.
func NewController(cfg ControllerConfig) *Controller {
	return &Controller{
		photoIndex: cfg.PhotoIndex,
		surface:    cfg.Surface,
		committed:  Normalize(cfg.Annotations),
		state:      StateViewing,
		dragIndex:  -1,
		onChange:   cfg.OnChange,
		commit:     cfg.Commit,
	}
}

// State returns the current interaction state.
func (c *Controller) State() State {
	return c.state
}

// DragIndex returns the marker being dragged, if any.
func (c *Controller) DragIndex() (int, bool) {
	if c.state != StateDragging {
		return -1, false
	}
	return c.dragIndex, true
}

// Editing reports whether edit mode is open.
func (c *Controller) Editing() bool {
	return c.state != StateViewing
}

// Annotations returns what the photo currently shows: the staged list while
// editing, otherwise the committed one.
func (c *Controller) Annotations() []domain.Annotation {
	if c.Editing() {
		return domain.CloneAnnotations(c.staged)
	}
	return domain.CloneAnnotations(c.committed)
}

// Committed returns the last committed list.
func (c *Controller) Committed() []domain.Annotation {
	return domain.CloneAnnotations(c.committed)
}

// SetSurface updates the rendered bounds, e.g. after a resize.
func (c *Controller) SetSurface(s Surface) {
	c.surface = s
}

// Hover returns the label shown in the tooltip of a marker.
func (c *Controller) Hover(index int) (string, bool) {
	list := c.Annotations()
	if index < 0 || index >= len(list) {
		return "", false
	}
	return list[index].Label, true
}

// EnterEdit opens edit mode on a copy of the committed markers.
func (c *Controller) EnterEdit() error {
	if c.state != StateViewing {
		return ErrIgnoredEvent
	}
	c.staged = domain.CloneAnnotations(c.committed)
	c.state = StateEditingIdle
	return nil
}

// Click places a new marker where the empty image area was clicked.
func (c *Controller) Click(px, py float64) error {
	if c.state != StateEditingIdle {
		return ErrIgnoredEvent
	}
	x, y := c.surface.ToPercent(px, py)
	c.stage(Add(c.staged, x, y))
	return nil
}

// PointerDown starts dragging the marker at index.
func (c *Controller) PointerDown(index int) error {
	if c.state != StateEditingIdle {
		return ErrIgnoredEvent
	}
	if err := checkIndex("pointer down", c.staged, index); err != nil {
		return err
	}
	c.state = StateDragging
	c.dragIndex = index
	return nil
}

// PointerMove drags the active marker to the pointer position.
func (c *Controller) PointerMove(px, py float64) error {
	if c.state != StateDragging {
		return ErrIgnoredEvent
	}
	x, y := c.surface.ToPercent(px, py)
	next, err := Move(c.staged, c.dragIndex, x, y)
	if err != nil {
		return err
	}
	c.stage(next)
	return nil
}

// PointerUp ends a drag.
func (c *Controller) PointerUp() error {
	return c.endDrag()
}

// PointerLeave ends a drag when the pointer leaves the surface.
func (c *Controller) PointerLeave() error {
	return c.endDrag()
}

func (c *Controller) endDrag() error {
	if c.state != StateDragging {
		return ErrIgnoredEvent
	}
	c.state = StateEditingIdle
	c.dragIndex = -1
	return nil
}

// Delete removes the marker at index from the staged list.
func (c *Controller) Delete(index int) error {
	if !c.Editing() {
		return ErrIgnoredEvent
	}
	next, err := Remove(c.staged, index)
	if err != nil {
		return err
	}

	if c.state == StateDragging {
		switch {
		case index == c.dragIndex:
			c.state = StateEditingIdle
			c.dragIndex = -1
		case index < c.dragIndex:
			c.dragIndex--
		}
	}
	c.stage(next)
	return nil
}

// Relabel renames the marker at index.
func (c *Controller) Relabel(index int, label string) error {
	if !c.Editing() {
		return ErrIgnoredEvent
	}
	next, err := Relabel(c.staged, index, label)
	if err != nil {
		return err
	}
	c.stage(next)
	return nil
}

// Save commits the staged markers and returns to viewing. When the commit
// callback fails the staged markers are kept and edit mode stays open.
func (c *Controller) Save() error {
	if !c.Editing() {
		return ErrIgnoredEvent
	}

	pending := domain.CloneAnnotations(c.staged)
	if c.commit != nil {
		if err := c.commit(c.photoIndex, domain.CloneAnnotations(pending)); err != nil {
			return fmt.Errorf("commit annotations for photo %d: %w", c.photoIndex, err)
		}
	}

	c.committed = pending
	c.staged = nil
	c.state = StateViewing
	c.dragIndex = -1
	c.notify(c.committed)
	return nil
}

// Cancel discards the staged markers and returns to viewing.
func (c *Controller) Cancel() error {
	if !c.Editing() {
		return ErrIgnoredEvent
	}
	c.staged = nil
	c.state = StateViewing
	c.dragIndex = -1
	return nil
}

func (c *Controller) stage(next []domain.Annotation) {
	c.staged = next
	c.notify(next)
}

func (c *Controller) notify(anns []domain.Annotation) {
	if c.onChange != nil {
		c.onChange(c.photoIndex, domain.CloneAnnotations(anns))
	}
}
