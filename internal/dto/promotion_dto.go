package dto

import "github.com/noah-isme/campus-ledger-api/internal/ledger"

// PromotionRequest selects the year whose active students are advanced.
type PromotionRequest struct {
	Year int `json:"current_year" validate:"required,gte=1,lte=4"`
}

// PromotionStudentResult reports the outcome for one student.
type PromotionStudentResult struct {
	USN     string              `json:"usn"`
	Outcome string              `json:"outcome"`
	ToYear  int                 `json:"to_year,omitempty"`
	Reasons []ledger.SkipReason `json:"reasons,omitempty"`
}

// PromotionSummary aggregates a batch promotion run.
type PromotionSummary struct {
	Year      int                      `json:"year"`
	Total     int                      `json:"total"`
	Promoted  int                      `json:"promoted"`
	Graduated int                      `json:"graduated"`
	Skipped   int                      `json:"skipped"`
	Failed    int                      `json:"failed"`
	Results   []PromotionStudentResult `json:"results"`
}
