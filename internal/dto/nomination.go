package dto

import "github.com/wrd-mh/pah-award-api/internal/models"

// CreateNominationRequest opens a draft nomination for the active year.
type CreateNominationRequest struct {
	WUAID           string             `json:"wua_id" validate:"required"`
	ApplicationYear int                `json:"application_year" validate:"required"`
	Category        models.WUACategory `json:"category" validate:"required,oneof=MAJOR MINOR"`
}

// SubmitSelfAssessmentRequest carries the nominee's per-question responses.
type SubmitSelfAssessmentRequest struct {
	Responses []models.SelfAssessmentResponse `json:"responses" validate:"required,min=1,dive"`
}

// CommitteeDecisionRequest records a committee verdict. Stage names the
// committee acting, so a role-vs-stage mismatch is caught before the
// record's state is consulted. CircleScore applies to the circle stage
// (endorsement of the self score); Scores applies to the corporation
// (5 criteria, 0-6 each) and state (5 questions, 0-4 each) stages.
type CommitteeDecisionRequest struct {
	Stage       models.NominationStage `json:"stage" validate:"required,oneof=circle_committee corporation_committee state_committee"`
	Decision    models.DecisionStatus  `json:"decision" validate:"required,oneof=approved rejected"`
	Remarks     string                 `json:"remarks" validate:"required"`
	CircleScore *int                   `json:"circle_score,omitempty"`
	Scores      []int                  `json:"scores,omitempty"`
}

// NominationQuery mirrors supported listing filters.
type NominationQuery struct {
	Year     int
	Status   models.NominationStatus
	Stage    models.NominationStage
	Category models.WUACategory
	WUAID    string
	Limit    int
	Offset   int
}
