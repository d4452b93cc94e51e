package parser

import (
	"sort"
	"strings"

	"capacity-recon/internal/model"
	"capacity-recon/internal/workbook"
)

// bannerSpan is the number of leading cells searched for banner text
const bannerSpan = 5

// RowKind tags the outcome of classifying a row
type RowKind int

const (
	RowData RowKind = iota
	RowBanner
	RowSkip
)

func (k RowKind) String() string {
	switch k {
	case RowBanner:
		return "banner"
	case RowSkip:
		return "skip"
	default:
		return "data"
	}
}

// RowClass is the classification of one row
type RowClass struct {
	Kind    RowKind
	Context model.SectionContext // set for banners
	Marker  string               // phrase that matched, for banners and skips
}

type sectionMarker struct {
	phrase  string
	context model.SectionContext
}

func marker(phrase, category, section string, included bool) sectionMarker {
	return sectionMarker{
		phrase:  phrase,
		context: model.SectionContext{Category: category, Section: section, IncludedInTotal: included},
	}
}

// sectionMarkers is the banner taxonomy for the solar and wind summaries
var sectionMarkers = []sectionMarker{
	marker("a. khavda solar projects", "Khavda Solar", "A", true),
	marker("a. khavda solar", "Khavda Solar", "A", true),
	marker("b. rajasthan solar projects", "Rajasthan Solar", "B", true),
	marker("b. rajasthan solar", "Rajasthan Solar", "B", true),
	marker("c. rajasthan solar projects", "Rajasthan Solar Additional 500MW", "C", true),
	marker("c. rajasthan solar", "Rajasthan Solar Additional 500MW", "C", true),
	marker("d1. khavda solar (copper", "Khavda Solar Copper+Merchant 50MW", "D1", false),
	marker("d1. khavda solar", "Khavda Solar Copper+Merchant 50MW", "D1", false),
	marker("d2. khavda solar (additional", "Khavda Solar Internal 650MW", "D2", false),
	marker("d2. khavda solar", "Khavda Solar Internal 650MW", "D2", false),

	marker("a. khavda wind projects", "Khavda Wind", "A", true),
	marker("a. khavda wind", "Khavda Wind", "A", true),
	marker("b. khavda wind (additional", "Khavda Wind Internal 421MW", "B", false),
	marker("b. khavda wind", "Khavda Wind Internal 421MW", "B", false),
	marker("c. mundra wind", "Mundra Wind 76MW", "C", true),
	marker("d. mundra wind", "Mundra Wind Internal 224.4MW", "D", false),
}

// skipMarkers identify subtotal, total and commentary rows
var skipMarkers = []string{
	"agel overall",
	"agel fy",
	"chairman",
	"budget",
	"grand total",
	"total (a",
	"total(a",
	"monthwise",
	"(a+b",
	"(a + b",
	"(1+2",
	"subtotal",
	"overall total",
}

// markersByLength holds sectionMarkers ordered longest phrase first so a
// specific marker is never shadowed by a shorter one it contains
var markersByLength = func() []sectionMarker {
	sorted := make([]sectionMarker, len(sectionMarkers))
	copy(sorted, sectionMarkers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].phrase) > len(sorted[j].phrase)
	})
	return sorted
}()

// ClassifyRow decides whether a row is a section banner, a row to skip or a
// data row. Banners are checked before skip markers.
func ClassifyRow(row workbook.Row) RowClass {
	text := strings.ToLower(row.Join(bannerSpan))
	if text == "" {
		return RowClass{Kind: RowData}
	}

	for _, m := range markersByLength {
		if strings.Contains(text, m.phrase) {
			return RowClass{Kind: RowBanner, Context: m.context, Marker: m.phrase}
		}
	}

	for _, phrase := range skipMarkers {
		if strings.Contains(text, phrase) {
			return RowClass{Kind: RowSkip, Marker: phrase}
		}
	}

	return RowClass{Kind: RowData}
}

// InitialContext infers the section a sheet starts in from its name, for
// sheets that carry a single section without a banner row. Sheets named
// "internal" are kept out of totals. ok is false for unrecognised names:
// their rows wait for the first banner.
func InitialContext(sheetName string) (ctx model.SectionContext, ok bool) {
	name := strings.ToLower(sheetName)

	switch {
	case strings.Contains(name, "kh") && strings.Contains(name, "solar"):
		ctx.Category = "Khavda Solar"
	case strings.Contains(name, "rj") && strings.Contains(name, "solar"):
		ctx.Category = "Rajasthan Solar"
	case strings.Contains(name, "kh") && strings.Contains(name, "wind"):
		ctx.Category = "Khavda Wind"
	case strings.Contains(name, "mundra"):
		ctx.Category = "Mundra Wind 76MW"
	default:
		return model.SectionContext{}, false
	}

	ctx.Section = "A"
	ctx.IncludedInTotal = true
	if strings.Contains(name, "internal") {
		ctx.IncludedInTotal = false
		ctx.Section = "D2"
		if strings.Contains(name, "wind") {
			ctx.Section = "B"
		}
	}
	return ctx, true
}
