package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// NominationStatus is the closed set of workflow statuses. The status and
// the current stage always move together; see the workflow service for the
// transition table.
type NominationStatus string

const (
	StatusDraft             NominationStatus = "draft"
	StatusSubmitted         NominationStatus = "submitted"
	StatusCircleReview      NominationStatus = "circle_review"
	StatusCorporationReview NominationStatus = "corporation_review"
	// state_review is part of the wire enum for filters but is never
	// stored: the state committee's decision closes the record in a
	// single conditional update, landing on completed or rejected.
	StatusStateReview NominationStatus = "state_review"
	StatusCompleted         NominationStatus = "completed"
	StatusRejected          NominationStatus = "rejected"
)

// NominationStage identifies the review pipeline phase a nomination sits in.
type NominationStage string

const (
	StageSelfAssessment       NominationStage = "self_assessment"
	StageCircleCommittee      NominationStage = "circle_committee"
	StageCorporationCommittee NominationStage = "corporation_committee"
	StageStateCommittee       NominationStage = "state_committee"
	StageFinal                NominationStage = "final"
)

// DecisionStatus captures a committee's verdict on a stage.
type DecisionStatus string

const (
	DecisionPending  DecisionStatus = "pending"
	DecisionApproved DecisionStatus = "approved"
	DecisionRejected DecisionStatus = "rejected"
)

// FinalStatus is the terminal outcome recorded by the state committee.
type FinalStatus string

const (
	FinalStatusWinner   FinalStatus = "winner"
	FinalStatusRejected FinalStatus = "rejected"
)

// AwardTier is one of the six ranked outcomes assigned from the grand total.
type AwardTier string

const (
	AwardTierFirst  AwardTier = "1st_tier"
	AwardTierSecond AwardTier = "2nd_tier"
	AwardTierThird  AwardTier = "3rd_tier"
	AwardTierFourth AwardTier = "4th_tier"
	AwardTierFifth  AwardTier = "5th_tier"
	AwardTierNone   AwardTier = "no_award"
)

// Score caps for each pipeline component.
const (
	SelfAssessmentMaxScore   = 150
	CorporationCriteriaCount = 5
	CorporationCriterionMax  = 6
	CorporationMaxScore      = CorporationCriteriaCount * CorporationCriterionMax
	StateQuestionCount       = 5
	StateQuestionMax         = 4
	StateMaxScore            = StateQuestionCount * StateQuestionMax
	GrandTotalMaxScore       = SelfAssessmentMaxScore + CorporationMaxScore + StateMaxScore
)

// ScoreBreakdown stores per-criterion committee scores as JSONB.
type ScoreBreakdown []int

// Value marshals the breakdown for persistence.
func (s ScoreBreakdown) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	data, err := json.Marshal([]int(s))
	if err != nil {
		return nil, fmt.Errorf("marshal score breakdown: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the breakdown.
func (s *ScoreBreakdown) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ScoreBreakdown", value)
	}
	if len(data) == 0 {
		*s = nil
		return nil
	}
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("unmarshal score breakdown: %w", err)
	}
	*s = values
	return nil
}

// Total sums the breakdown entries.
func (s ScoreBreakdown) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// StageDecision is one entry of the per-stage decision trail.
type StageDecision struct {
	Status     DecisionStatus `json:"status"`
	Remarks    string         `json:"remarks,omitempty"`
	ActionDate *time.Time     `json:"action_date,omitempty"`
	ActedBy    *string        `json:"acted_by,omitempty"`
}

// Nomination is a WUA award application for one (nominee, year) pair.
// The application number is assigned at creation and never changes;
// grand total is always recomputed from its components, never hand-set.
type Nomination struct {
	ID                string           `db:"id" json:"id"`
	ApplicationNumber string           `db:"application_number" json:"application_number"`
	WUAID             string           `db:"wua_id" json:"wua_id"`
	NomineeID         string           `db:"nominee_id" json:"nominee_id"`
	ApplicationYear   int              `db:"application_year" json:"application_year"`
	Category          WUACategory      `db:"category" json:"category"`
	Status            NominationStatus `db:"status" json:"status"`
	CurrentStage      NominationStage  `db:"current_stage" json:"current_stage"`

	SelfAssessmentScore       int            `db:"self_assessment_score" json:"self_assessment_score"`
	SelfAssessmentResponses   ScoreBreakdown `db:"self_assessment_responses" json:"self_assessment_responses,omitempty"`
	CircleCommitteeScore      *int           `db:"circle_committee_score" json:"circle_committee_score,omitempty"`
	CorporationScores         ScoreBreakdown `db:"corporation_scores" json:"corporation_scores,omitempty"`
	CorporationCommitteeScore *int           `db:"corporation_committee_score" json:"corporation_committee_score,omitempty"`
	StateScores               ScoreBreakdown `db:"state_scores" json:"state_scores,omitempty"`
	StateCommitteeScore       *int           `db:"state_committee_score" json:"state_committee_score,omitempty"`
	GrandTotalScore           *int           `db:"grand_total_score" json:"grand_total_score,omitempty"`

	CircleStatus          DecisionStatus `db:"circle_status" json:"-"`
	CircleRemarks         string         `db:"circle_remarks" json:"-"`
	CircleActionDate      *time.Time     `db:"circle_action_date" json:"-"`
	CircleActedBy         *string        `db:"circle_acted_by" json:"-"`
	CorporationStatus     DecisionStatus `db:"corporation_status" json:"-"`
	CorporationRemarks    string         `db:"corporation_remarks" json:"-"`
	CorporationActionDate *time.Time     `db:"corporation_action_date" json:"-"`
	CorporationActedBy    *string        `db:"corporation_acted_by" json:"-"`
	StateStatus           DecisionStatus `db:"state_status" json:"-"`
	StateRemarks          string         `db:"state_remarks" json:"-"`
	StateActionDate       *time.Time     `db:"state_action_date" json:"-"`
	StateActedBy          *string        `db:"state_acted_by" json:"-"`

	FinalStatus   *FinalStatus `db:"final_status" json:"final_status,omitempty"`
	AwardCategory *AwardTier   `db:"award_category" json:"award_category,omitempty"`

	SubmittedAt *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Decisions exposes the per-stage decision trail in responses.
func (n *Nomination) Decisions() map[NominationStage]StageDecision {
	return map[NominationStage]StageDecision{
		StageCircleCommittee: {
			Status:     n.CircleStatus,
			Remarks:    n.CircleRemarks,
			ActionDate: n.CircleActionDate,
			ActedBy:    n.CircleActedBy,
		},
		StageCorporationCommittee: {
			Status:     n.CorporationStatus,
			Remarks:    n.CorporationRemarks,
			ActionDate: n.CorporationActionDate,
			ActedBy:    n.CorporationActedBy,
		},
		StageStateCommittee: {
			Status:     n.StateStatus,
			Remarks:    n.StateRemarks,
			ActionDate: n.StateActionDate,
			ActedBy:    n.StateActedBy,
		},
	}
}

// MarshalJSON attaches the decision trail to the serialized record.
func (n Nomination) MarshalJSON() ([]byte, error) {
	type alias Nomination
	return json.Marshal(struct {
		alias
		Decisions map[NominationStage]StageDecision `json:"decisions"`
	}{
		alias:     alias(n),
		Decisions: (&n).Decisions(),
	})
}

// IsTerminal reports whether no further transitions are permitted.
func (n *Nomination) IsTerminal() bool {
	return n.Status == StatusRejected || n.Status == StatusCompleted
}

// NominationFilter constrains listing queries.
type NominationFilter struct {
	NomineeID string
	WUAID     string
	Year      int
	Status    NominationStatus
	Stage     NominationStage
	Category  WUACategory
	Limit     int
	Offset    int
}
