package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/wrd-mh/pah-award-api/internal/models"
)

func newNominationRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestNominationRepositoryNextApplicationSeq(t *testing.T) {
	db, mock, cleanup := newNominationRepoMock(t)
	defer cleanup()

	repo := NewNominationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO nomination_sequences")).
		WithArgs(2026).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(7))

	seq, err := repo.NextApplicationSeq(context.Background(), 2026)
	require.NoError(t, err)
	require.Equal(t, 7, seq)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNominationRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newNominationRepoMock(t)
	defer cleanup()

	repo := NewNominationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO nominations")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	nomination := &models.Nomination{
		ApplicationNumber: "APP/MH/2026/0007",
		WUAID:             "wua-1",
		NomineeID:         "user-1",
		ApplicationYear:   2026,
		Category:          models.WUACategoryMajor,
		Status:            models.StatusDraft,
		CurrentStage:      models.StageSelfAssessment,
		CircleStatus:      models.DecisionPending,
		CorporationStatus: models.DecisionPending,
		StateStatus:       models.DecisionPending,
	}
	require.NoError(t, repo.Create(context.Background(), nomination))
	require.NotEmpty(t, nomination.ID)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO nominations")).
		WillReturnError(&pq.Error{Code: "23505"})
	err := repo.Create(context.Background(), nomination)
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNominationRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newNominationRepoMock(t)
	defer cleanup()

	repo := NewNominationRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "application_number", "wua_id", "nominee_id", "application_year", "category",
		"status", "current_stage", "self_assessment_score", "self_assessment_responses",
		"circle_committee_score", "corporation_scores", "corporation_committee_score",
		"state_scores", "state_committee_score", "grand_total_score",
		"circle_status", "circle_remarks", "circle_action_date", "circle_acted_by",
		"corporation_status", "corporation_remarks", "corporation_action_date", "corporation_acted_by",
		"state_status", "state_remarks", "state_action_date", "state_acted_by",
		"final_status", "award_category", "submitted_at", "created_at", "updated_at",
	}).AddRow(
		"nom-1", "APP/MH/2026/0001", "wua-1", "user-1", 2026, "MAJOR",
		"submitted", "circle_committee", 132, `[28,36,38,15,15]`,
		nil, nil, nil,
		nil, nil, nil,
		"pending", "", nil, nil,
		"pending", "", nil, nil,
		"pending", "", nil, nil,
		nil, nil, now, now, now,
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, application_number")).
		WithArgs("nom-1").
		WillReturnRows(rows)

	found, err := repo.GetByID(context.Background(), "nom-1")
	require.NoError(t, err)
	require.Equal(t, "nom-1", found.ID)
	require.Equal(t, 132, found.SelfAssessmentScore)
	require.Equal(t, models.ScoreBreakdown{28, 36, 38, 15, 15}, found.SelfAssessmentResponses)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNominationRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newNominationRepoMock(t)
	defer cleanup()

	repo := NewNominationRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "application_number", "wua_id", "nominee_id", "application_year", "category",
		"status", "current_stage", "self_assessment_score",
		"circle_status", "corporation_status", "state_status", "created_at", "updated_at",
	}).AddRow(
		"nom-1", "APP/MH/2026/0001", "wua-1", "user-1", 2026, "MINOR",
		"circle_review", "circle_committee", 120,
		"pending", "pending", "pending", now, now,
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, application_number")).
		WithArgs(2026, models.StatusCircleReview, models.StageCircleCommittee).
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.NominationFilter{
		Year:   2026,
		Status: models.StatusCircleReview,
		Stage:  models.StageCircleCommittee,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "nom-1", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNominationRepositorySubmitSelfAssessment(t *testing.T) {
	db, mock, cleanup := newNominationRepoMock(t)
	defer cleanup()

	// The UPDATE must write both status and current_stage so the stored
	// pair stays one of the transition-table rows.
	repo := NewNominationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("SET status = $1, current_stage = $2")).
		WithArgs(models.StatusSubmitted, models.StageSelfAssessment, 132,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"nom-1", models.StatusDraft, models.StageSelfAssessment).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SubmitSelfAssessment(context.Background(), SelfAssessmentParams{
		ID:          "nom-1",
		Responses:   models.ScoreBreakdown{28, 36, 38, 15, 15},
		Score:       132,
		SubmittedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNominationRepositorySubmitSelfAssessmentStale(t *testing.T) {
	db, mock, cleanup := newNominationRepoMock(t)
	defer cleanup()

	repo := NewNominationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE nominations")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SubmitSelfAssessment(context.Background(), SelfAssessmentParams{
		ID:    "nom-1",
		Score: 132,
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNominationRepositoryRecordDecision(t *testing.T) {
	db, mock, cleanup := newNominationRepoMock(t)
	defer cleanup()

	repo := NewNominationRepository(db)
	score := 118
	mock.ExpectExec(regexp.QuoteMeta("UPDATE nominations SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RecordDecision(context.Background(), DecisionParams{
		ID:             "nom-1",
		Stage:          models.StageCircleCommittee,
		ExpectedStatus: models.StatusSubmitted,
		ExpectedStage:  models.StageSelfAssessment,
		NewStatus:      models.StatusCircleReview,
		NewStage:       models.StageCircleCommittee,
		Decision:       models.DecisionApproved,
		Remarks:        "verified in field visit",
		ActedBy:        "circle-1",
		ActionDate:     time.Now(),
		CircleScore:    &score,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNominationRepositoryRecordDecisionConcurrent(t *testing.T) {
	db, mock, cleanup := newNominationRepoMock(t)
	defer cleanup()

	repo := NewNominationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE nominations SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RecordDecision(context.Background(), DecisionParams{
		ID:             "nom-1",
		Stage:          models.StageStateCommittee,
		ExpectedStatus: models.StatusCorporationReview,
		ExpectedStage:  models.StageCorporationCommittee,
		NewStatus:      models.StatusCompleted,
		NewStage:       models.StageFinal,
		Decision:       models.DecisionApproved,
		Remarks:        "deliberation closed",
		ActedBy:        "state-1",
		ActionDate:     time.Now(),
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNominationRepositoryRecordDecisionUnsupportedStage(t *testing.T) {
	db, _, cleanup := newNominationRepoMock(t)
	defer cleanup()

	repo := NewNominationRepository(db)
	err := repo.RecordDecision(context.Background(), DecisionParams{
		ID:    "nom-1",
		Stage: models.StageSelfAssessment,
	})
	require.Error(t, err)
}

func TestNominationRepositoryCountsByTier(t *testing.T) {
	db, mock, cleanup := newNominationRepoMock(t)
	defer cleanup()

	repo := NewNominationRepository(db)
	rows := sqlmock.NewRows([]string{"award_category", "count"}).
		AddRow("1st_tier", 2).
		AddRow("no_award", 5)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT award_category, COUNT")).
		WithArgs(2026).
		WillReturnRows(rows)

	counts, err := repo.CountsByTier(context.Background(), 2026)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	require.Equal(t, models.AwardTierFirst, counts[0].Tier)
	require.Equal(t, 2, counts[0].Count)
	require.NoError(t, mock.ExpectationsWereMet())
}
