package service

import (
	"regexp"

	"github.com/wooinsight/wooinsight-go/internal/domain"
)

// Keyword patterns deciding which store data one query needs. The keyword
// sets ARE the classifier contract: changing them changes which fetches
// run, so the tests enumerate them one by one.
var (
	salesPattern     = regexp.MustCompile(`(?i)(sale|revenue|order|income|gmv|turnover|profit)`)
	productsPattern  = regexp.MustCompile(`(?i)(product|top|best|item|sku|stock|inventory)`)
	analyticsPattern = regexp.MustCompile(`(?i)(analytic|analytics|report|trend|kpi|metric|stats|statistics)`)

	// two ISO dates joined by "to", "until" or a hyphen; only the first
	// match in the text is used
	dateRangePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s+(?:to|until|-)\s+(\d{4}-\d{2}-\d{2})`)
)

// ClassifyIntent inspects the literal text of the latest user message and
// produces the fetch plan for this turn. Stateless and deterministic.
// Analytics fetching is forced whenever a complete date range is present,
// even if no analytics keyword matched.
func ClassifyIntent(text string) domain.FetchPlan {
	plan := domain.FetchPlan{
		WantsSales:     salesPattern.MatchString(text),
		WantsProducts:  productsPattern.MatchString(text),
		WantsAnalytics: analyticsPattern.MatchString(text),
		Range:          ExtractDateRange(text),
	}

	if !plan.Range.IsZero() {
		plan.WantsAnalytics = true
	}

	return plan
}

// ExtractDateRange returns the first "YYYY-MM-DD to YYYY-MM-DD" pair found
// in the text, or an empty range.
func ExtractDateRange(text string) domain.DateRange {
	m := dateRangePattern.FindStringSubmatch(text)
	if m == nil {
		return domain.DateRange{}
	}
	return domain.DateRange{From: m[1], To: m[2]}
}
