package service_test

import (
	"testing"

	"github.com/wooinsight/wooinsight-go/internal/service"
)

func TestExtractInsight_PlainObject(t *testing.T) {
	got := service.ExtractInsight(`{"narrative":"Revenue is up 12%.","recommendation":"Restock the bestsellers."}`)

	if got == nil {
		t.Fatal("expected an insight")
	}
	if got.Narrative != "Revenue is up 12%." {
		t.Errorf("unexpected narrative %q", got.Narrative)
	}
	if got.Recommendation != "Restock the bestsellers." {
		t.Errorf("unexpected recommendation %q", got.Recommendation)
	}
}

func TestExtractInsight_FencedJSON(t *testing.T) {
	text := "```json\n{\"narrative\":\"ok\",\"chart\":{\"type\":\"bar\",\"data\":{\"labels\":[\"Jan\",\"Feb\"],\"datasets\":[{\"label\":\"Revenue\",\"data\":[100,200]}]}}}\n```"

	got := service.ExtractInsight(text)
	if got == nil {
		t.Fatal("expected an insight")
	}
	if got.Chart == nil || got.Chart.Type != "bar" {
		t.Fatalf("unexpected chart: %+v", got.Chart)
	}
	if len(got.Chart.Data.Labels) != 2 || got.Chart.Data.Datasets[0].Data[1] != 200 {
		t.Errorf("unexpected chart data: %+v", got.Chart.Data)
	}
}

func TestExtractInsight_BareFence(t *testing.T) {
	got := service.ExtractInsight("```\n{\"narrative\":\"ok\"}\n```")

	if got == nil || got.Narrative != "ok" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestExtractInsight_Table(t *testing.T) {
	got := service.ExtractInsight(`{"table":[{"product":"Hoodie","qty":12},{"product":"Mug","qty":7}]}`)

	if got == nil {
		t.Fatal("expected an insight")
	}
	if len(got.Table) != 2 || got.Table[0]["product"] != "Hoodie" {
		t.Errorf("unexpected table: %+v", got.Table)
	}
}

func TestExtractInsight_PlainText(t *testing.T) {
	for _, text := range []string{
		"Still thinking...",
		"Here is what I found: revenue grew.",
		"",
		`{"narrative":"trunc`, // partial stream
		"[1,2,3]",             // array, not object
	} {
		if got := service.ExtractInsight(text); got != nil {
			t.Errorf("expected nil for %q, got %+v", text, got)
		}
	}
}

func TestExtractInsight_SurroundingWhitespace(t *testing.T) {
	got := service.ExtractInsight("  \n{\"narrative\":\"ok\"}\n  ")

	if got == nil || got.Narrative != "ok" {
		t.Fatalf("unexpected result: %+v", got)
	}
}
