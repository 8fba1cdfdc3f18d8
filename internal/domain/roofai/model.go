package roofai

import "time"

// Quality enums accepted by the analysis contract.
const (
	QualityExcellent = "Excellent"
	QualityGood      = "Good"
	QualityModerate  = "Moderate"
	QualityPoor      = "Poor"
)

// Capture quality enums.
const (
	CaptureHigh     = "High"
	CaptureModerate = "Moderate"
	CaptureLow      = "Low"
	CaptureVariable = "Variable"
)

// Runoff potential enums.
const (
	RunoffHigh   = "High"
	RunoffMedium = "Medium"
	RunoffLow    = "Low"
)

// Chat roles understood by the inference transport.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// AnalyzeRequest carries a client-submitted rooftop image.
type AnalyzeRequest struct {
	Image    string `json:"image"`
	Filename string `json:"filename"`
}

// DecodedImage is the normalized form of an uploaded image: a bare base64
// payload plus the MIME type it was declared (or assumed) to be.
type DecodedImage struct {
	Payload  string
	MIMEType string
}

// RoofAnalysisResult is the validated contract returned to the frontend.
// Every field is populated after coercion; upstream gaps become defaults.
type RoofAnalysisResult struct {
	Quality         string   `json:"quality"`
	Score           int      `json:"score"`
	CaptureQuality  string   `json:"captureQuality"`
	RunoffPotential string   `json:"runoffPotential"`
	AreaEstimate    *int     `json:"areaEstimate"`
	Notes           []string `json:"notes"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`
}

// ChatTurn is a single message as submitted by the frontend.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries the running conversation plus the optional analysis the
// client wants the assistant to ground its answers in.
type ChatRequest struct {
	Messages []ChatTurn          `json:"messages"`
	Analysis *RoofAnalysisResult `json:"analysis"`
}

// ChatReply is serialized back to the frontend.
type ChatReply struct {
	Reply     string `json:"reply"`
	Model     string `json:"model"`
	LatencyMs int64  `json:"latencyMs"`
}

// Turn is a conversation entry normalized to the transport's two-role model.
type Turn struct {
	Role string
	Text string
}

// Config wires runtime settings for the roof AI domain.
type Config struct {
	Model   string
	Timeout time.Duration
}
