package service_test

import (
	"testing"

	"github.com/wooinsight/wooinsight-go/internal/service"
)

// The keyword sets define the only observable behavior of the classifier,
// so each one is enumerated explicitly.

func TestClassifyIntent_SalesKeywords(t *testing.T) {
	for _, kw := range []string{"sale", "revenue", "order", "income", "gmv", "turnover", "profit"} {
		plan := service.ClassifyIntent("tell me about " + kw)
		if !plan.WantsSales {
			t.Errorf("keyword %q should trigger sales intent", kw)
		}
	}
}

func TestClassifyIntent_ProductKeywords(t *testing.T) {
	for _, kw := range []string{"product", "top", "best", "item", "sku", "stock", "inventory"} {
		plan := service.ClassifyIntent("tell me about " + kw)
		if !plan.WantsProducts {
			t.Errorf("keyword %q should trigger product intent", kw)
		}
	}
}

func TestClassifyIntent_AnalyticsKeywords(t *testing.T) {
	for _, kw := range []string{"analytic", "analytics", "report", "trend", "kpi", "metric", "stats", "statistics"} {
		plan := service.ClassifyIntent("tell me about " + kw)
		if !plan.WantsAnalytics {
			t.Errorf("keyword %q should trigger analytics intent", kw)
		}
	}
}

func TestClassifyIntent_CaseInsensitive(t *testing.T) {
	plan := service.ClassifyIntent("SHOW MY REVENUE AND TOP PRODUCTS")
	if !plan.WantsSales || !plan.WantsProducts {
		t.Errorf("uppercase keywords should match: %+v", plan)
	}
}

func TestClassifyIntent_RevenueWithDateRange(t *testing.T) {
	plan := service.ClassifyIntent("What's my revenue from 2025-01-01 to 2025-01-31?")

	if !plan.WantsSales {
		t.Error("expected sales intent")
	}
	if plan.Range.From != "2025-01-01" || plan.Range.To != "2025-01-31" {
		t.Errorf("unexpected range: %+v", plan.Range)
	}
	if !plan.WantsAnalytics {
		t.Error("date range must force analytics")
	}
}

func TestClassifyIntent_TopProducts(t *testing.T) {
	plan := service.ClassifyIntent("Show top products")

	if !plan.WantsProducts {
		t.Error("expected product intent")
	}
	if plan.WantsSales {
		t.Error("did not expect sales intent")
	}
	if !plan.Range.IsZero() {
		t.Errorf("did not expect a date range, got %+v", plan.Range)
	}
}

func TestClassifyIntent_NoKeywords(t *testing.T) {
	plan := service.ClassifyIntent("hello there")

	if plan.WantsSales || plan.WantsProducts || plan.WantsAnalytics {
		t.Errorf("expected empty plan, got %+v", plan)
	}
}

func TestExtractDateRange_Separators(t *testing.T) {
	cases := map[string]string{
		"2025-01-01 to 2025-01-31":    "to",
		"2025-01-01 until 2025-01-31": "until",
		"2025-01-01 - 2025-01-31":     "hyphen",
	}
	for text := range cases {
		r := service.ExtractDateRange(text)
		if r.From != "2025-01-01" || r.To != "2025-01-31" {
			t.Errorf("separator %q: unexpected range %+v", cases[text], r)
		}
	}
}

func TestExtractDateRange_FirstMatchWins(t *testing.T) {
	r := service.ExtractDateRange("compare 2025-01-01 to 2025-01-31 and 2025-02-01 to 2025-02-28")

	if r.From != "2025-01-01" || r.To != "2025-01-31" {
		t.Errorf("expected first pair only, got %+v", r)
	}
}

func TestExtractDateRange_NoMatch(t *testing.T) {
	if r := service.ExtractDateRange("last month"); !r.IsZero() {
		t.Errorf("expected empty range, got %+v", r)
	}
}
