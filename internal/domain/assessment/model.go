package assessment

import (
	"strconv"
	"strings"
	"time"
)

// Record is a persisted assessment as submitted from the input form. The
// form fields are free text end to end (the frontend never constrains them),
// so they stay strings; numeric projections happen at the prediction
// boundary.
type Record struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Dwellers  string    `json:"dwellers"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	RoofArea  string    `json:"roofArea"`
	OpenSpace string    `json:"openSpace"`
	RoofType  string    `json:"roofType"`
	SoilType  string    `json:"soilType"`
	Address   string    `json:"address"`
	Latitude  string    `json:"latitude"`
	Longitude string    `json:"longitude"`
	Rainfall  string    `json:"rainfall"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SaveRequest captures the assessment form payload.
type SaveRequest struct {
	Name      string `json:"name"`
	Dwellers  string `json:"dwellers"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	RoofArea  string `json:"roofArea"`
	OpenSpace string `json:"openSpace"`
	RoofType  string `json:"roofType"`
	SoilType  string `json:"soilType"`
	Address   string `json:"address"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Rainfall  string `json:"rainfall"`
}

// PredictionQuery is the read-only projection of a Record sent to the
// prediction service. It is derived fresh per request and never mutated.
type PredictionQuery struct {
	RoofArea       float64
	RoofType       string
	SoilType       string
	AnnualRainfall float64
}

// PredictionResult holds the numbers computed by the prediction service.
// All fields default to 0 when the service cannot supply them.
type PredictionResult struct {
	PotentialHarvest float64 `json:"potentialHarvest"`
	TankVolume       float64 `json:"tankVolume"`
	Efficiency       float64 `json:"efficiency"`
	Inertia          float64 `json:"inertia"`
}

// Enriched is a Record merged with its PredictionResult.
type Enriched struct {
	Record
	PredictionResult
}

// PredictionQuery projects the numeric prediction inputs out of the record.
// Unparseable numbers project to 0 rather than failing the request.
func (r Record) PredictionQuery() PredictionQuery {
	return PredictionQuery{
		RoofArea:       parseNumber(r.RoofArea),
		RoofType:       r.RoofType,
		SoilType:       r.SoilType,
		AnnualRainfall: parseNumber(r.Rainfall),
	}
}

func parseNumber(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}

// Enrich merges a record with its prediction. A pure merge: both inputs are
// trusted to be well-formed already.
func Enrich(record Record, prediction PredictionResult) Enriched {
	return Enriched{Record: record, PredictionResult: prediction}
}

// PredictionStatusError carries the prediction service's non-success HTTP
// reply so the transport layer can forward status and body to the client.
type PredictionStatusError struct {
	Status int
	Body   string
}

func (e *PredictionStatusError) Error() string {
	return "prediction service returned status " + strconv.Itoa(e.Status)
}
