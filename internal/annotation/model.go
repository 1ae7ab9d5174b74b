// Package annotation edits the defect markers placed on rug photos.
//
// The list operations in this file are pure: they never modify their input
// and always return a fresh slice. Controller drives them from pointer events.
package annotation

import (
	"errors"
	"fmt"
	"math"

	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
)

// DefaultLocation is the location text given to markers placed by hand.
const DefaultLocation = "on rug"

const (
	minCoordinate = 0.0
	maxCoordinate = 100.0
)

// ErrIndexOutOfRange is wrapped by every IndexError.
var ErrIndexOutOfRange = errors.New("annotation index out of range")

// IndexError reports an operation addressed to a marker that does not exist.
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range for %d annotations", e.Op, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// Clamp pins a percentage coordinate to [0,100]. NaN becomes 0.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return minCoordinate
	}
	return math.Max(minCoordinate, math.Min(maxCoordinate, v))
}

// DefaultLabel is the label of the n-th marker on a photo, counting from 1.
func DefaultLabel(n int) string {
	return fmt.Sprintf("Issue %d", n)
}

// Add appends a marker at (x, y) labelled after its position in the list.
func Add(list []domain.Annotation, x, y float64) []domain.Annotation {
	out := make([]domain.Annotation, len(list), len(list)+1)
	copy(out, list)
	return append(out, domain.Annotation{
		Label:    DefaultLabel(len(list) + 1),
		Location: DefaultLocation,
		X:        Clamp(x),
		Y:        Clamp(y),
	})
}

// Move changes the coordinates of the marker at index.
func Move(list []domain.Annotation, index int, x, y float64) ([]domain.Annotation, error) {
	if err := checkIndex("move", list, index); err != nil {
		return nil, err
	}
	out := domain.CloneAnnotations(list)
	out[index].X = Clamp(x)
	out[index].Y = Clamp(y)
	return out, nil
}

// Relabel replaces the label of the marker at index.
func Relabel(list []domain.Annotation, index int, label string) ([]domain.Annotation, error) {
	if err := checkIndex("relabel", list, index); err != nil {
		return nil, err
	}
	out := domain.CloneAnnotations(list)
	out[index].Label = label
	return out, nil
}

// Remove deletes the marker at index, keeping the order of the rest.
func Remove(list []domain.Annotation, index int) ([]domain.Annotation, error) {
	if err := checkIndex("remove", list, index); err != nil {
		return nil, err
	}
	out := make([]domain.Annotation, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...), nil
}

// Normalize clamps every coordinate of list into range.
func Normalize(list []domain.Annotation) []domain.Annotation {
	out := domain.CloneAnnotations(list)
	for i := range out {
		out[i].X = Clamp(out[i].X)
		out[i].Y = Clamp(out[i].Y)
	}
	return out
}

func checkIndex(op string, list []domain.Annotation, index int) error {
	if index < 0 || index >= len(list) {
		return &IndexError{Op: op, Index: index, Len: len(list)}
	}
	return nil
}
