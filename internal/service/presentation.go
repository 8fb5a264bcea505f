package service

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/wooinsight/wooinsight-go/internal/domain"
)

var (
	fenceOpenPattern  = regexp.MustCompile("^```json\\s*")
	fenceBarePattern  = regexp.MustCompile("^```\\s*")
	fenceClosePattern = regexp.MustCompile("\\s*```$")
)

// ExtractInsight parses a model reply into a structured insight. The model is
// asked for bare JSON but sometimes wraps it in a markdown fence anyway, so
// fences are stripped before parsing. Replies that are not a single JSON
// object (partial output, plain prose) return nil and the caller falls back
// to treating the text as a narrative.
func ExtractInsight(text string) *domain.Insight {
	cleaned := strings.TrimSpace(text)
	cleaned = fenceOpenPattern.ReplaceAllString(cleaned, "")
	cleaned = fenceBarePattern.ReplaceAllString(cleaned, "")
	cleaned = fenceClosePattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if !strings.HasPrefix(cleaned, "{") || !strings.HasSuffix(cleaned, "}") {
		return nil
	}

	var insight domain.Insight
	if err := json.Unmarshal([]byte(cleaned), &insight); err != nil {
		return nil
	}
	return &insight
}
