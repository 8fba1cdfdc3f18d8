package roofai

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAnalysisUnparsableFallsBack(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "{truncated", "[]", `"just a string"`, "```\ngarbage\n```"} {
		result := parseAnalysis(raw)
		require.Equal(t, fallbackAnalysis(), result, "input %q", raw)
	}
}

func TestParseAnalysisFallbackContent(t *testing.T) {
	result := parseAnalysis("<html>rate limited</html>")
	require.Equal(t, QualityModerate, result.Quality)
	require.Equal(t, 60, result.Score)
	require.Equal(t, CaptureModerate, result.CaptureQuality)
	require.Equal(t, RunoffMedium, result.RunoffPotential)
	require.Nil(t, result.AreaEstimate)
	require.Equal(t, []string{"Automatic parsing failed; using fallback values"}, result.Notes)
	require.Equal(t, []string{"Retry analysis later"}, result.Recommendations)
	require.Equal(t, "Initial automated analysis placeholder.", result.Summary)
}

func TestParseAnalysisStripsFences(t *testing.T) {
	raw := "```json\n{\"quality\":\"Good\",\"score\":82,\"captureQuality\":\"High\",\"runoffPotential\":\"High\",\"areaEstimate\":120,\"notes\":[\"clean surface\"],\"recommendations\":[\"install mesh filter\"],\"summary\":\"Suitable roof.\"}\n```"
	result := parseAnalysis(raw)
	require.Equal(t, QualityGood, result.Quality)
	require.Equal(t, 82, result.Score)
	require.Equal(t, CaptureHigh, result.CaptureQuality)
	require.NotNil(t, result.AreaEstimate)
	require.Equal(t, 120, *result.AreaEstimate)
	require.Equal(t, "Suitable roof.", result.Summary)
}

func TestParseAnalysisUppercaseFence(t *testing.T) {
	raw := "```JSON\n{\"score\":70}\n```"
	result := parseAnalysis(raw)
	require.Equal(t, 70, result.Score)
}

func TestParseAnalysisMissingFieldsGetDefaults(t *testing.T) {
	result := parseAnalysis("{}")
	require.Equal(t, QualityModerate, result.Quality)
	require.Equal(t, 55, result.Score)
	require.Equal(t, CaptureModerate, result.CaptureQuality)
	require.Equal(t, RunoffMedium, result.RunoffPotential)
	require.Nil(t, result.AreaEstimate)
	require.Empty(t, result.Notes)
	require.Empty(t, result.Recommendations)
	require.Equal(t, "Summary not available.", result.Summary)
}

func TestParseAnalysisWrongTypesGetDefaults(t *testing.T) {
	raw := `{"quality":7,"score":"eighty","captureQuality":[],"runoffPotential":{},"areaEstimate":"big","notes":"one note","recommendations":42,"summary":null}`
	result := parseAnalysis(raw)
	require.Equal(t, QualityModerate, result.Quality)
	require.Equal(t, 55, result.Score)
	require.Equal(t, CaptureModerate, result.CaptureQuality)
	require.Equal(t, RunoffMedium, result.RunoffPotential)
	require.Nil(t, result.AreaEstimate)
	require.Empty(t, result.Notes)
	require.Empty(t, result.Recommendations)
	require.Equal(t, "Summary not available.", result.Summary)
}

func TestParseAnalysisEnumCaseInsensitive(t *testing.T) {
	raw := `{"quality":"excellent","captureQuality":"VARIABLE","runoffPotential":"low"}`
	result := parseAnalysis(raw)
	require.Equal(t, QualityExcellent, result.Quality)
	require.Equal(t, CaptureVariable, result.CaptureQuality)
	require.Equal(t, RunoffLow, result.RunoffPotential)
}

func TestParseAnalysisUnknownEnumFallsBack(t *testing.T) {
	raw := `{"quality":"Superb","captureQuality":"Medium","runoffPotential":"Torrential"}`
	result := parseAnalysis(raw)
	require.Equal(t, QualityModerate, result.Quality)
	require.Equal(t, CaptureModerate, result.CaptureQuality)
	require.Equal(t, RunoffMedium, result.RunoffPotential)
}

func TestParseAnalysisScoreClamped(t *testing.T) {
	require.Equal(t, 100, parseAnalysis(`{"score":250}`).Score)
	require.Equal(t, 0, parseAnalysis(`{"score":-3}`).Score)
	require.Equal(t, 67, parseAnalysis(`{"score":66.7}`).Score)
}

func TestParseAnalysisListsTruncatedToTen(t *testing.T) {
	items := make([]string, 14)
	for i := range items {
		items[i] = fmt.Sprintf("note %d", i)
	}
	payload, err := json.Marshal(map[string]any{"notes": items, "recommendations": items})
	require.NoError(t, err)

	result := parseAnalysis(string(payload))
	require.Len(t, result.Notes, 10)
	require.Len(t, result.Recommendations, 10)
	require.Equal(t, "note 0", result.Notes[0])
	require.Equal(t, "note 9", result.Notes[9])
}

func TestParseAnalysisNonStringListEntriesDropped(t *testing.T) {
	raw := `{"notes":["keep",1,null,"also keep"]}`
	result := parseAnalysis(raw)
	require.Equal(t, []string{"keep", "also keep"}, result.Notes)
}

func TestParseAnalysisIdempotent(t *testing.T) {
	raw := `{"quality":"Poor","score":22,"captureQuality":"Low","runoffPotential":"Low","areaEstimate":45,"notes":["cracked tiles"],"recommendations":["repair before use"],"summary":"Needs work."}`
	first := parseAnalysis(raw)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)
	second := parseAnalysis(string(encoded))
	require.Equal(t, first, second)
}

func TestParseAnalysisIdempotentOnFallback(t *testing.T) {
	first := parseAnalysis("nonsense")
	encoded, err := json.Marshal(first)
	require.NoError(t, err)
	require.Equal(t, first, parseAnalysis(string(encoded)))
}
