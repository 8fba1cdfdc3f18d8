package roofai

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a helpful assistant specializing in rainwater harvesting rooftop suitability. Use the provided analysis context when answering. If the user asks for actionable improvements, be concise and list them as bullet points. If they ask before an analysis is run, instruct them to upload and analyse an image first. Avoid hallucinating measurements."

const noAnalysisSentinel = "No analysis context yet."

const analysisPrompt = `You are a rooftop rainwater harvesting surveyor. Analyze the attached rooftop image and rate its suitability for rainwater collection.

Score the roof on a 0-100 scale using these bands:
- 90-100: extremely clean surface, no debris, intact drainage paths
- 70-89: minor debris or wear, collection-ready with light cleaning
- 50-69: visible dirt, moss or patch repairs needed before collection
- 35-49: significant damage, heavy fouling or poor drainage
- 0-34: severe damage, unusable for collection without reconstruction

Respond with ONLY a minified JSON object, no markdown fencing, using exactly this shape:
{"quality":"Excellent|Good|Moderate|Poor","score":0-100,"captureQuality":"High|Moderate|Low|Variable","runoffPotential":"High|Medium|Low","areaEstimate":number in square meters or null,"notes":[up to 10 short observations],"recommendations":[up to 10 short actions],"summary":"one or two sentences"}`

// AnalysisPrompt returns the fixed instruction sent with every image. The
// validator never trusts the "JSON only" mandate to be honored.
func AnalysisPrompt() string {
	return analysisPrompt
}

// buildAnalysisContext renders the context block the chat assistant is
// grounded in. A nil analysis yields the fixed sentinel string.
func buildAnalysisContext(analysis *RoofAnalysisResult) string {
	if analysis == nil {
		return noAnalysisSentinel
	}
	area := "N/A"
	if analysis.AreaEstimate != nil {
		area = fmt.Sprintf("%d", *analysis.AreaEstimate)
	}
	return fmt.Sprintf(
		"Roof Analysis Context:\nScore: %d\nQuality: %s\nRunoff Potential: %s\nCapture Quality: %s\nArea Estimate: %s m^2\nObservations: %s\nRecommendations: %s",
		analysis.Score,
		analysis.Quality,
		analysis.RunoffPotential,
		analysis.CaptureQuality,
		area,
		strings.Join(analysis.Notes, "; "),
		strings.Join(analysis.Recommendations, "; "),
	)
}

// normalizeHistory collapses arbitrary client roles onto the two-role model
// the transport expects: "assistant" maps to model, everything else to user.
func normalizeHistory(messages []ChatTurn) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, msg := range messages {
		role := RoleUser
		if msg.Role == "assistant" {
			role = RoleModel
		}
		turns = append(turns, Turn{Role: role, Text: msg.Content})
	}
	return turns
}
