package extraction

import (
	"fmt"
	"sort"
	"strings"
)

// ModernFormatFirstYear is the first season reported in the modern layout.
const ModernFormatFirstYear = 2019

// Detector picks the layout of a match document and refuses to guess when the
// document disagrees with it.
type Detector struct {
	cutoverYear int
}

func NewDetector() *Detector {
	return &Detector{cutoverYear: ModernFormatFirstYear}
}

// Detect returns the layout implied by year, or by override when set. The
// chosen layout's markers must be present and the other layouts' markers absent.
func (d *Detector) Detect(year int, override Format, doc *Document) (Layout, error) {
	if doc == nil {
		return Layout{}, fmt.Errorf("%w: document is nil", ErrDocumentUnparseable)
	}

	format := override
	if format == "" {
		format = FormatModern
		if year < d.cutoverYear {
			format = FormatLegacy
		}
	}

	layout, ok := LayoutFor(format)
	if !ok {
		return Layout{}, fmt.Errorf("%w: no layout registered for %s", ErrFormatMismatch, format)
	}

	var missing []string
	for _, marker := range layout.Markers {
		if !doc.HasStat(marker) {
			missing = append(missing, marker.String())
		}
	}

	var unexpected []string
	for other, otherLayout := range layouts {
		if other == format {
			continue
		}
		for _, marker := range otherLayout.Markers {
			if containsLocator(layout.Markers, marker) {
				continue
			}
			if doc.HasStat(marker) {
				unexpected = append(unexpected, marker.String())
			}
		}
	}

	sort.Strings(unexpected)
	if len(missing) > 0 || len(unexpected) > 0 {
		return Layout{}, fmt.Errorf(
			"%w: season=%d layout=%s missing_markers=[%s] unexpected_markers=[%s]",
			ErrFormatMismatch,
			year,
			format,
			strings.Join(missing, ","),
			strings.Join(unexpected, ","),
		)
	}

	return layout, nil
}

func containsLocator(items []Locator, target Locator) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
