// Package reportparser extracts priced service lines from the free-text
// estimate letters produced by the language model.
//
// Letters are semi-structured: a heading opens the itemised breakdown, each
// service sits on its own "Name: $amount" line, and a closing phrase ends the
// list. Every line is classified once, in a fixed order, by a small state
// machine; when nothing is found inside a breakdown section the whole letter
// is scanned again with looser rules.
package reportparser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
	"github.com/ridwanfathin/rug-estimate-service/internal/money"
)

const minNameLength = 3

var (
	sectionStartMarkers = []string{
		"rug breakdown",
		"estimate of services",
		"services and costs",
		"itemized list",
	}

	sectionEndMarkers = []string{
		"total estimate",
		"total investment",
		"next steps",
		"sincerely",
		"additional protection",
	}

	rugHeaderPrefixes = []string{"rug #", "rug:"}

	fallbackExclusions = []string{"subtotal", "total", "rug #"}

	// "- Name: $1,234.56"; the amount is validated by money.ParseAmount.
	serviceLinePattern = regexp.MustCompile(`^[-*]?\s*(.+?):\s*\$(\d+(?:,\d+)*(?:\.\d+)?)`)

	// Same shape, tolerating emphasis between the colon and the amount
	// ("**Cleaning:** $100").
	fallbackLinePattern = regexp.MustCompile(`^(.+?):[*_]*\s*\$(\d+(?:,\d+)*(?:\.\d+)?)`)

	leadingBullets = regexp.MustCompile(`^[\s\-*•]+`)
)

// lineKind is the classification of one letter line.
type lineKind int

const (
	kindBlank lineKind = iota
	kindSectionStart
	kindSectionEnd
	kindOutside
	kindRugHeader
	kindSubtotal
	kindService
	kindProse
)

// Parser turns letters into service lists. The zero value is ready to use.
type Parser struct {
	// NewID generates service ids; uuid.NewString when nil.
	NewID func() string
}

// Parse extracts services from text using a default Parser.
func Parse(text string) []domain.ServiceItem {
	return Parser{}.Parse(text)
}

// Parse never fails; a letter without recognisable lines yields an empty list.
func (p Parser) Parse(text string) []domain.ServiceItem {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	acc := p.newAccumulator(true)
	inSection := false
	for _, line := range lines {
		kind, name, price := classify(line, inSection)
		switch kind {
		case kindSectionStart:
			inSection = true
		case kindSectionEnd:
			inSection = false
		case kindService:
			acc.add(name, price)
		}
	}

	if len(acc.items) > 0 {
		return acc.items
	}

	fallback := p.newAccumulator(false)
	for _, line := range lines {
		if name, price, ok := matchFallback(line); ok {
			fallback.add(name, price)
		}
	}
	return fallback.items
}

// classify runs the checks in a fixed order: section boundaries first, then
// rug headers, subtotals and finally the service-line pattern.
func classify(line string, inSection bool) (lineKind, string, float64) {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)

	if containsAny(lower, sectionStartMarkers) {
		return kindSectionStart, "", 0
	}
	if containsAny(lower, sectionEndMarkers) {
		return kindSectionEnd, "", 0
	}
	if !inSection {
		return kindOutside, "", 0
	}
	if trimmed == "" {
		return kindBlank, "", 0
	}
	if hasAnyPrefix(lower, rugHeaderPrefixes) {
		return kindRugHeader, "", 0
	}
	if strings.Contains(lower, "subtotal") {
		return kindSubtotal, "", 0
	}

	m := serviceLinePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return kindProse, "", 0
	}
	name := strings.TrimSpace(m[1])
	if utf8.RuneCountInString(name) < minNameLength {
		return kindProse, "", 0
	}
	price, err := money.ParseAmount(m[2])
	if err != nil {
		return kindProse, "", 0
	}
	return kindService, name, price
}

func matchFallback(line string) (string, float64, bool) {
	m := fallbackLinePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", 0, false
	}

	name := cleanName(m[1])
	if utf8.RuneCountInString(name) < minNameLength {
		return "", 0, false
	}
	if containsAny(strings.ToLower(name), fallbackExclusions) {
		return "", 0, false
	}

	price, err := money.ParseAmount(m[2])
	if err != nil {
		return "", 0, false
	}
	return name, price, true
}

// cleanName drops list bullets and markdown emphasis from a candidate name.
func cleanName(raw string) string {
	name := leadingBullets.ReplaceAllString(raw, "")
	name = strings.NewReplacer("*", "", "_", "").Replace(name)
	return strings.TrimSpace(name)
}

// accumulator merges services by case-insensitive name in first-seen order.
type accumulator struct {
	newID        func() string
	countRepeats bool
	items        []domain.ServiceItem
	indexByName  map[string]int
}

func (p Parser) newAccumulator(countRepeats bool) *accumulator {
	newID := p.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &accumulator{
		newID:        newID,
		countRepeats: countRepeats,
		items:        []domain.ServiceItem{},
		indexByName:  map[string]int{},
	}
}

func (a *accumulator) add(name string, price float64) {
	key := strings.ToLower(name)
	if i, ok := a.indexByName[key]; ok {
		existing := &a.items[i]
		if a.countRepeats {
			existing.Quantity++
		}
		if existing.UnitPrice == 0 && price > 0 {
			existing.UnitPrice = price
		}
		return
	}

	a.indexByName[key] = len(a.items)
	a.items = append(a.items, domain.ServiceItem{
		ID:        a.newID(),
		Name:      name,
		Quantity:  1,
		UnitPrice: price,
		Priority:  domain.PriorityMedium,
	})
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
