package annotation

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
)

// photoAnnotationsSchema describes one entry of the annotation array returned
// by the photo analysis model.
const photoAnnotationsSchema = `{
  "type": "object",
  "required": ["photoIndex", "annotations"],
  "properties": {
    "photoIndex": {"type": "integer", "minimum": 0},
    "annotations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["x", "y"],
        "properties": {
          "label": {"type": "string"},
          "location": {"type": "string"},
          "x": {"type": "number"},
          "y": {"type": "number"}
        }
      }
    }
  }
}`

var seedSchema = jsonschema.MustCompileString("photo_annotations.json", photoAnnotationsSchema)

// DecodeSeed turns the raw annotation output of the photo analysis model into
// a PhotoSet. The input is untrusted: code fences are stripped, entries that
// do not match the expected shape are dropped, coordinates are clamped and
// missing labels are numbered. Malformed input yields an empty set.
func DecodeSeed(raw []byte, logger *slog.Logger) domain.PhotoSet {
	if logger == nil {
		logger = slog.Default()
	}

	body := stripCodeFences(string(raw))
	// Model output forwarded verbatim arrives as a JSON string.
	if strings.HasPrefix(body, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(body), &inner); err == nil {
			body = stripCodeFences(inner)
		}
	}
	if body == "" || body == "null" {
		return domain.PhotoSet{}
	}

	var entries []json.RawMessage
	if strings.HasPrefix(body, "{") {
		entries = []json.RawMessage{json.RawMessage(body)}
	} else if err := json.Unmarshal([]byte(body), &entries); err != nil {
		logger.Warn("annotation.seed.decode_failed", "error", err, "bytes", len(raw))
		return domain.PhotoSet{}
	}

	set := domain.PhotoSet{}
	dropped := 0
	for i, entry := range entries {
		photo, ok := decodeEntry(entry)
		if !ok {
			dropped++
			logger.Debug("annotation.seed.entry_dropped", "entry", i)
			continue
		}
		merged := append(set.Lookup(photo.PhotoIndex), photo.Annotations...)
		set = set.With(photo.PhotoIndex, merged)
	}

	// Numbering runs after merging so labels follow the final order.
	for i := range set {
		for j := range set[i].Annotations {
			if strings.TrimSpace(set[i].Annotations[j].Label) == "" {
				set[i].Annotations[j].Label = DefaultLabel(j + 1)
			}
		}
	}

	logger.Info("annotation.seed.ok",
		"photos", len(set),
		"annotations", set.Count(),
		"dropped", dropped,
	)
	return set
}

func decodeEntry(entry json.RawMessage) (domain.PhotoAnnotations, bool) {
	var generic any
	dec := json.NewDecoder(bytes.NewReader(entry))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return domain.PhotoAnnotations{}, false
	}
	if err := seedSchema.Validate(generic); err != nil {
		return domain.PhotoAnnotations{}, false
	}

	var photo domain.PhotoAnnotations
	if err := json.Unmarshal(entry, &photo); err != nil {
		return domain.PhotoAnnotations{}, false
	}

	photo.Annotations = Normalize(photo.Annotations)
	for i := range photo.Annotations {
		photo.Annotations[i].Label = strings.TrimSpace(photo.Annotations[i].Label)
		if strings.TrimSpace(photo.Annotations[i].Location) == "" {
			photo.Annotations[i].Location = DefaultLocation
		}
	}
	return photo, true
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
