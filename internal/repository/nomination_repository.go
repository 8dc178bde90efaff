package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/wrd-mh/pah-award-api/internal/models"
)

// ErrDuplicate signals a unique-constraint violation on insert.
var ErrDuplicate = errors.New("duplicate nomination")

const nominationColumns = `id, application_number, wua_id, nominee_id, application_year, category,
       status, current_stage, self_assessment_score, self_assessment_responses,
       circle_committee_score, corporation_scores, corporation_committee_score,
       state_scores, state_committee_score, grand_total_score,
       circle_status, circle_remarks, circle_action_date, circle_acted_by,
       corporation_status, corporation_remarks, corporation_action_date, corporation_acted_by,
       state_status, state_remarks, state_action_date, state_acted_by,
       final_status, award_category, submitted_at, created_at, updated_at`

// NominationRepository persists nomination workflow data.
type NominationRepository struct {
	db *sqlx.DB
}

// NewNominationRepository constructs the repository.
func NewNominationRepository(db *sqlx.DB) *NominationRepository {
	return &NominationRepository{db: db}
}

// NextApplicationSeq increments and returns the per-year application counter.
func (r *NominationRepository) NextApplicationSeq(ctx context.Context, year int) (int, error) {
	const query = `INSERT INTO nomination_sequences (year, seq) VALUES ($1, 1)
	ON CONFLICT (year) DO UPDATE SET seq = nomination_sequences.seq + 1
	RETURNING seq`
	var seq int
	if err := r.db.GetContext(ctx, &seq, query, year); err != nil {
		return 0, fmt.Errorf("next application seq: %w", err)
	}
	return seq, nil
}

// Create inserts a new nomination row. A second insert for the same
// (nominee, year) pair fails with ErrDuplicate via the unique constraint.
func (r *NominationRepository) Create(ctx context.Context, nomination *models.Nomination) error {
	if nomination.ID == "" {
		nomination.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if nomination.CreatedAt.IsZero() {
		nomination.CreatedAt = now
	}
	nomination.UpdatedAt = now
	const query = `INSERT INTO nominations
	(id, application_number, wua_id, nominee_id, application_year, category, status, current_stage,
	 self_assessment_score, self_assessment_responses, circle_status, corporation_status, state_status,
	 created_at, updated_at)
	VALUES (:id, :application_number, :wua_id, :nominee_id, :application_year, :category, :status, :current_stage,
	 :self_assessment_score, :self_assessment_responses, :circle_status, :corporation_status, :state_status,
	 :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, nomination); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("create nomination: %w", err)
	}
	return nil
}

// GetByID fetches a nomination by identifier.
func (r *NominationRepository) GetByID(ctx context.Context, id string) (*models.Nomination, error) {
	query := fmt.Sprintf(`SELECT %s FROM nominations WHERE id = $1`, nominationColumns)
	var nomination models.Nomination
	if err := r.db.GetContext(ctx, &nomination, query, id); err != nil {
		return nil, err
	}
	return &nomination, nil
}

// FindByNomineeYear returns the nomination for a (nominee, year) pair.
func (r *NominationRepository) FindByNomineeYear(ctx context.Context, nomineeID string, year int) (*models.Nomination, error) {
	query := fmt.Sprintf(`SELECT %s FROM nominations WHERE nominee_id = $1 AND application_year = $2`, nominationColumns)
	var nomination models.Nomination
	if err := r.db.GetContext(ctx, &nomination, query, nomineeID, year); err != nil {
		return nil, err
	}
	return &nomination, nil
}

// List returns nominations matching the filter (latest first).
func (r *NominationRepository) List(ctx context.Context, filter models.NominationFilter) ([]models.Nomination, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 6)
	builder.WriteString(`SELECT ` + nominationColumns + ` FROM nominations`)

	conditions := make([]string, 0, 6)
	if filter.NomineeID != "" {
		args = append(args, filter.NomineeID)
		conditions = append(conditions, fmt.Sprintf("nominee_id = $%d", len(args)))
	}
	if filter.WUAID != "" {
		args = append(args, filter.WUAID)
		conditions = append(conditions, fmt.Sprintf("wua_id = $%d", len(args)))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		conditions = append(conditions, fmt.Sprintf("application_year = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Stage != "" {
		args = append(args, filter.Stage)
		conditions = append(conditions, fmt.Sprintf("current_stage = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var nominations []models.Nomination
	if err := r.db.SelectContext(ctx, &nominations, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list nominations: %w", err)
	}
	return nominations, nil
}

// SelfAssessmentParams groups the columns written on submission.
type SelfAssessmentParams struct {
	ID          string
	Responses   models.ScoreBreakdown
	Score       int
	SubmittedAt time.Time
}

// SubmitSelfAssessment stores the computed self score and advances the
// record from draft to submitted. Both halves of the (status, stage)
// pair are written so the row always carries a pair from the transition
// table. The state precondition makes the update conditional; zero rows
// affected surfaces as sql.ErrNoRows.
func (r *NominationRepository) SubmitSelfAssessment(ctx context.Context, params SelfAssessmentParams) error {
	const query = `UPDATE nominations
	SET status = $1, current_stage = $2, self_assessment_score = $3,
	    self_assessment_responses = $4, submitted_at = $5, updated_at = $6
	WHERE id = $7 AND status = $8 AND current_stage = $9`
	result, err := r.db.ExecContext(ctx, query,
		models.StatusSubmitted, models.StageSelfAssessment, params.Score,
		params.Responses, params.SubmittedAt, time.Now().UTC(),
		params.ID, models.StatusDraft, models.StageSelfAssessment,
	)
	if err != nil {
		return fmt.Errorf("submit self assessment: %w", err)
	}
	return requireRowsAffected(result)
}

// DecisionParams groups the columns written by a committee decision. The
// expected status/stage pair is the optimistic-concurrency precondition.
type DecisionParams struct {
	ID             string
	Stage          models.NominationStage
	ExpectedStatus models.NominationStatus
	ExpectedStage  models.NominationStage
	NewStatus      models.NominationStatus
	NewStage       models.NominationStage
	Decision       models.DecisionStatus
	Remarks        string
	ActedBy        string
	ActionDate     time.Time

	CircleScore *int
	Scores      models.ScoreBreakdown
	StageScore  *int
	GrandTotal  *int
	FinalStatus *models.FinalStatus
	AwardTier   *models.AwardTier
}

// RecordDecision persists a committee verdict in a single conditional
// update keyed on the current (status, stage) pair. A concurrent writer
// that got there first leaves zero rows to update, reported as
// sql.ErrNoRows.
func (r *NominationRepository) RecordDecision(ctx context.Context, params DecisionParams) error {
	set := []string{
		"status = :new_status",
		"current_stage = :new_stage",
		"updated_at = :updated_at",
	}
	named := map[string]interface{}{
		"id":              params.ID,
		"new_status":      params.NewStatus,
		"new_stage":       params.NewStage,
		"updated_at":      time.Now().UTC(),
		"expected_status": params.ExpectedStatus,
		"expected_stage":  params.ExpectedStage,
		"decision":        params.Decision,
		"remarks":         params.Remarks,
		"acted_by":        params.ActedBy,
		"action_date":     params.ActionDate,
	}

	switch params.Stage {
	case models.StageCircleCommittee:
		set = append(set,
			"circle_status = :decision",
			"circle_remarks = :remarks",
			"circle_action_date = :action_date",
			"circle_acted_by = :acted_by",
		)
		if params.CircleScore != nil {
			set = append(set, "circle_committee_score = :circle_score")
			named["circle_score"] = *params.CircleScore
		}
	case models.StageCorporationCommittee:
		set = append(set,
			"corporation_status = :decision",
			"corporation_remarks = :remarks",
			"corporation_action_date = :action_date",
			"corporation_acted_by = :acted_by",
		)
		if params.StageScore != nil {
			set = append(set, "corporation_scores = :scores", "corporation_committee_score = :stage_score")
			named["scores"] = params.Scores
			named["stage_score"] = *params.StageScore
		}
	case models.StageStateCommittee:
		set = append(set,
			"state_status = :decision",
			"state_remarks = :remarks",
			"state_action_date = :action_date",
			"state_acted_by = :acted_by",
		)
		if params.StageScore != nil {
			set = append(set, "state_scores = :scores", "state_committee_score = :stage_score")
			named["scores"] = params.Scores
			named["stage_score"] = *params.StageScore
		}
	default:
		return fmt.Errorf("record decision: unsupported stage %s", params.Stage)
	}

	if params.GrandTotal != nil {
		set = append(set, "grand_total_score = :grand_total")
		named["grand_total"] = *params.GrandTotal
	}
	if params.FinalStatus != nil {
		set = append(set, "final_status = :final_status")
		named["final_status"] = *params.FinalStatus
	}
	if params.AwardTier != nil {
		set = append(set, "award_category = :award_category")
		named["award_category"] = *params.AwardTier
	}

	query := fmt.Sprintf(`UPDATE nominations SET %s
	WHERE id = :id AND status = :expected_status AND current_stage = :expected_stage`,
		strings.Join(set, ", "))
	result, err := r.db.NamedExecContext(ctx, query, named)
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	return requireRowsAffected(result)
}

// CountByYear reports how many nominations exist for the given year.
func (r *NominationRepository) CountByYear(ctx context.Context, year int) (int, error) {
	const query = `SELECT COUNT(*) FROM nominations WHERE application_year = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, year); err != nil {
		return 0, fmt.Errorf("count nominations by year: %w", err)
	}
	return count, nil
}

// CountsByStage aggregates pipeline counts per (status, stage) pair.
func (r *NominationRepository) CountsByStage(ctx context.Context, year int) ([]models.PipelineStageCount, error) {
	const query = `SELECT status, current_stage, COUNT(*) AS count
	FROM nominations WHERE application_year = $1
	GROUP BY status, current_stage
	ORDER BY status, current_stage`
	var counts []models.PipelineStageCount
	if err := r.db.SelectContext(ctx, &counts, query, year); err != nil {
		return nil, fmt.Errorf("counts by stage: %w", err)
	}
	return counts, nil
}

// CountsByTier aggregates completed nominations per award tier.
func (r *NominationRepository) CountsByTier(ctx context.Context, year int) ([]models.TierCount, error) {
	const query = `SELECT award_category, COUNT(*) AS count
	FROM nominations
	WHERE application_year = $1 AND award_category IS NOT NULL
	GROUP BY award_category`
	var counts []models.TierCount
	if err := r.db.SelectContext(ctx, &counts, query, year); err != nil {
		return nil, fmt.Errorf("counts by tier: %w", err)
	}
	return counts, nil
}

// RecentDecisions returns the latest committee actions for the dashboard.
func (r *NominationRepository) RecentDecisions(ctx context.Context, year, limit int) ([]models.RecentDecision, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	const query = `SELECT application_number, current_stage, status, updated_at
	FROM nominations
	WHERE application_year = $1 AND status <> 'draft'
	ORDER BY updated_at DESC
	LIMIT $2`
	var decisions []models.RecentDecision
	if err := r.db.SelectContext(ctx, &decisions, query, year, limit); err != nil {
		return nil, fmt.Errorf("recent decisions: %w", err)
	}
	return decisions, nil
}

func requireRowsAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
