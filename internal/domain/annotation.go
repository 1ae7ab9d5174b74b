package domain

import "sort"

// Annotation is a defect marker on a photo. X and Y are percentages of the
// image width and height.
type Annotation struct {
	Label    string  `json:"label"`
	Location string  `json:"location"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// PhotoAnnotations groups the markers of one photo
type PhotoAnnotations struct {
	PhotoIndex  int          `json:"photoIndex"`
	Annotations []Annotation `json:"annotations"`
}

// PhotoSet holds annotations for the photos of a rug, ordered by photo index.
// Photos that were never touched are absent.
type PhotoSet []PhotoAnnotations

// Lookup returns a copy of the annotations of a photo, or an empty list.
func (p PhotoSet) Lookup(photoIndex int) []Annotation {
	for _, photo := range p {
		if photo.PhotoIndex == photoIndex {
			return CloneAnnotations(photo.Annotations)
		}
	}
	return []Annotation{}
}

// With returns a new set where photoIndex holds anns.
func (p PhotoSet) With(photoIndex int, anns []Annotation) PhotoSet {
	out := make(PhotoSet, 0, len(p)+1)
	replaced := false
	for _, photo := range p {
		if photo.PhotoIndex == photoIndex {
			photo = PhotoAnnotations{PhotoIndex: photoIndex, Annotations: CloneAnnotations(anns)}
			replaced = true
		}
		out = append(out, photo)
	}
	if !replaced {
		out = append(out, PhotoAnnotations{PhotoIndex: photoIndex, Annotations: CloneAnnotations(anns)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PhotoIndex < out[j].PhotoIndex })
	return out
}

// Count returns the total number of annotations across all photos.
func (p PhotoSet) Count() int {
	n := 0
	for _, photo := range p {
		n += len(photo.Annotations)
	}
	return n
}

// CloneAnnotations returns a non-nil copy of anns.
func CloneAnnotations(anns []Annotation) []Annotation {
	out := make([]Annotation, len(anns))
	copy(out, anns)
	return out
}
