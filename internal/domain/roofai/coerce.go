package roofai

import (
	"encoding/json"
	"math"
	"strings"
)

const (
	maxListItems   = 10
	defaultSummary = "Summary not available."
)

// parseAnalysis turns whatever the model produced into a fully populated
// RoofAnalysisResult. It is total: malformed payloads resolve to a fixed
// fallback, partial payloads are filled field by field with defaults.
func parseAnalysis(raw string) RoofAnalysisResult {
	sanitized := stripFences(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(sanitized), &fields); err != nil {
		return fallbackAnalysis()
	}
	return coerceAnalysis(fields)
}

// stripFences removes leading/trailing markdown code fences the model tends
// to wrap JSON in despite instructions not to.
func stripFences(raw string) string {
	sanitized := strings.TrimSpace(raw)
	if strings.HasPrefix(sanitized, "```") {
		sanitized = sanitized[3:]
		if len(sanitized) >= 4 && strings.EqualFold(sanitized[:4], "json") {
			sanitized = sanitized[4:]
		}
	}
	sanitized = strings.TrimSpace(sanitized)
	sanitized = strings.TrimSuffix(sanitized, "```")
	return strings.TrimSpace(sanitized)
}

// fallbackAnalysis is returned whenever the upstream payload cannot be parsed
// at all. A malformed model reply must never fail the request.
func fallbackAnalysis() RoofAnalysisResult {
	return RoofAnalysisResult{
		Quality:         QualityModerate,
		Score:           60,
		CaptureQuality:  CaptureModerate,
		RunoffPotential: RunoffMedium,
		AreaEstimate:    nil,
		Notes:           []string{"Automatic parsing failed; using fallback values"},
		Recommendations: []string{"Retry analysis later"},
		Summary:         "Initial automated analysis placeholder.",
	}
}

func coerceAnalysis(fields map[string]any) RoofAnalysisResult {
	return RoofAnalysisResult{
		Quality:         coerceEnum(fields["quality"], QualityModerate, QualityExcellent, QualityGood, QualityModerate, QualityPoor),
		Score:           coerceScore(fields["score"], 55),
		CaptureQuality:  coerceEnum(fields["captureQuality"], CaptureModerate, CaptureHigh, CaptureModerate, CaptureLow, CaptureVariable),
		RunoffPotential: coerceEnum(fields["runoffPotential"], RunoffMedium, RunoffHigh, RunoffMedium, RunoffLow),
		AreaEstimate:    coerceArea(fields["areaEstimate"]),
		Notes:           coerceStringList(fields["notes"]),
		Recommendations: coerceStringList(fields["recommendations"]),
		Summary:         coerceSummary(fields["summary"]),
	}
}

// coerceEnum matches the value against the allowed set case-insensitively and
// returns the canonical spelling, or the fallback for anything else.
func coerceEnum(value any, fallback string, allowed ...string) string {
	text, ok := value.(string)
	if !ok {
		return fallback
	}
	for _, candidate := range allowed {
		if strings.EqualFold(strings.TrimSpace(text), candidate) {
			return candidate
		}
	}
	return fallback
}

func coerceScore(value any, fallback int) int {
	num, ok := value.(float64)
	if !ok {
		return fallback
	}
	score := int(math.Round(num))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func coerceArea(value any) *int {
	num, ok := value.(float64)
	if !ok {
		return nil
	}
	area := int(math.Round(num))
	return &area
}

// coerceStringList keeps the string elements of an upstream array, in order,
// capped at maxListItems. Anything that is not an array yields an empty list.
func coerceStringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		text, ok := item.(string)
		if !ok {
			continue
		}
		out = append(out, text)
		if len(out) == maxListItems {
			break
		}
	}
	return out
}

func coerceSummary(value any) string {
	text, ok := value.(string)
	if !ok {
		return defaultSummary
	}
	return text
}
