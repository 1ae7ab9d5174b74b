package annotation

import (
	"errors"
	"fmt"
)

// EventType names a pointer or edit-mode event.
type EventType string

const (
	EventEnterEdit    EventType = "enterEdit"
	EventClick        EventType = "click"
	EventPointerDown  EventType = "pointerDown"
	EventPointerMove  EventType = "pointerMove"
	EventPointerUp    EventType = "pointerUp"
	EventPointerLeave EventType = "pointerLeave"
	EventDelete       EventType = "delete"
	EventRelabel      EventType = "relabel"
	EventSave         EventType = "save"
	EventCancel       EventType = "cancel"
)

// Event is one recorded interaction. X and Y are pointer coordinates; Index
// addresses a marker; Label is used by relabel.
type Event struct {
	Type  EventType `json:"type"`
	X     float64   `json:"x,omitempty"`
	Y     float64   `json:"y,omitempty"`
	Index int       `json:"index,omitempty"`
	Label string    `json:"label,omitempty"`
}

// Apply dispatches ev to the matching controller method.
func (c *Controller) Apply(ev Event) error {
	switch ev.Type {
	case EventEnterEdit:
		return c.EnterEdit()
	case EventClick:
		return c.Click(ev.X, ev.Y)
	case EventPointerDown:
		return c.PointerDown(ev.Index)
	case EventPointerMove:
		return c.PointerMove(ev.X, ev.Y)
	case EventPointerUp:
		return c.PointerUp()
	case EventPointerLeave:
		return c.PointerLeave()
	case EventDelete:
		return c.Delete(ev.Index)
	case EventRelabel:
		return c.Relabel(ev.Index, ev.Label)
	case EventSave:
		return c.Save()
	case EventCancel:
		return c.Cancel()
	}
	return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
}

// ReplayResult counts how a batch of events was handled.
type ReplayResult struct {
	Applied int `json:"applied"`
	Ignored int `json:"ignored"`
}

// Replay applies events in order. Ignored events are counted and skipped; any
// other error stops the replay and is returned with the event position.
func (c *Controller) Replay(events []Event) (ReplayResult, error) {
	var res ReplayResult
	for i, ev := range events {
		err := c.Apply(ev)
		switch {
		case err == nil:
			res.Applied++
		case errors.Is(err, ErrIgnoredEvent):
			res.Ignored++
		default:
			return res, fmt.Errorf("event %d (%s): %w", i, ev.Type, err)
		}
	}
	return res, nil
}
