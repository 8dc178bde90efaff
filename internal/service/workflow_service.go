package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/wrd-mh/pah-award-api/internal/dto"
	"github.com/wrd-mh/pah-award-api/internal/models"
	"github.com/wrd-mh/pah-award-api/internal/repository"
	appErrors "github.com/wrd-mh/pah-award-api/pkg/errors"
)

type nominationStore interface {
	NextApplicationSeq(ctx context.Context, year int) (int, error)
	Create(ctx context.Context, nomination *models.Nomination) error
	GetByID(ctx context.Context, id string) (*models.Nomination, error)
	FindByNomineeYear(ctx context.Context, nomineeID string, year int) (*models.Nomination, error)
	List(ctx context.Context, filter models.NominationFilter) ([]models.Nomination, error)
	SubmitSelfAssessment(ctx context.Context, params repository.SelfAssessmentParams) error
	RecordDecision(ctx context.Context, params repository.DecisionParams) error
}

type wuaReader interface {
	FindByID(ctx context.Context, id string) (*models.WUA, error)
}

type rubricProvider interface {
	Rubric(ctx context.Context) (*models.Rubric, error)
}

type workflowCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// WorkflowYears bounds which application years accept new nominations.
type WorkflowYears struct {
	Min    int
	Max    int
	Active int
}

// WorkflowService drives a nomination through the four review stages.
// Every transition is a conditional update on the stored (status, stage)
// pair, so two committee members racing on the same record leave exactly
// one winner.
type WorkflowService struct {
	repo     nominationStore
	wuas     wuaReader
	rubric   rubricProvider
	audit    auditWriter
	cache    workflowCache
	metrics  *MetricsService
	years    WorkflowYears
	validate *validator.Validate
	logger   *zap.Logger
}

// NewWorkflowService constructs the service with defaults.
func NewWorkflowService(repo nominationStore, wuas wuaReader, rubric rubricProvider, audit auditWriter, years WorkflowYears, validate *validator.Validate, logger *zap.Logger) *WorkflowService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{
		repo:     repo,
		wuas:     wuas,
		rubric:   rubric,
		audit:    audit,
		years:    years,
		validate: validate,
		logger:   logger,
	}
}

// WithCache attaches an invalidation hook for queue and dashboard caches.
func (s *WorkflowService) WithCache(cache workflowCache) *WorkflowService {
	s.cache = cache
	return s
}

// WithMetrics attaches the decision counter instrumentation.
func (s *WorkflowService) WithMetrics(metrics *MetricsService) *WorkflowService {
	s.metrics = metrics
	return s
}

// Create opens a draft nomination for the actor's WUA in the given year.
// One nomination per (nominee, year); the second attempt fails with
// DUPLICATE_NOMINATION.
func (s *WorkflowService) Create(ctx context.Context, req dto.CreateNominationRequest, actor *models.JWTClaims) (*models.Nomination, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleNominee && actor.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if req.ApplicationYear < s.years.Min || req.ApplicationYear > s.years.Max {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("application year must be between %d and %d", s.years.Min, s.years.Max))
	}
	if s.years.Active != 0 && req.ApplicationYear != s.years.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("nominations are open for %d only", s.years.Active))
	}
	if actor.Role == models.RoleNominee && actor.WUAID != nil && *actor.WUAID != req.WUAID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "nominees may only nominate their own association")
	}

	wua, err := s.wuas.FindByID(ctx, req.WUAID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "water user association not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load association")
	}
	if wua.Category != req.Category {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("association is registered in the %s category", wua.Category))
	}

	if _, err := s.repo.FindByNomineeYear(ctx, actor.UserID, req.ApplicationYear); err == nil {
		return nil, appErrors.ErrDuplicateNomination
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing nomination")
	}

	seq, err := s.repo.NextApplicationSeq(ctx, req.ApplicationYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate application number")
	}

	nomination := &models.Nomination{
		ApplicationNumber: fmt.Sprintf("APP/MH/%d/%04d", req.ApplicationYear, seq),
		WUAID:             wua.ID,
		NomineeID:         actor.UserID,
		ApplicationYear:   req.ApplicationYear,
		Category:          wua.Category,
		Status:            models.StatusDraft,
		CurrentStage:      models.StageSelfAssessment,
		CircleStatus:      models.DecisionPending,
		CorporationStatus: models.DecisionPending,
		StateStatus:       models.DecisionPending,
	}
	if err := s.repo.Create(ctx, nomination); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.ErrDuplicateNomination
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create nomination")
	}

	s.emitAudit(ctx, actor.UserID, models.AuditActionNominationCreate, nomination.ID, nomination)
	s.invalidate(ctx)
	return nomination, nil
}

// SubmitSelfAssessment validates the nominee's responses against the
// rubric, stores per-module totals, and moves the draft to submitted.
func (s *WorkflowService) SubmitSelfAssessment(ctx context.Context, id string, req dto.SubmitSelfAssessmentRequest, actor *models.JWTClaims) (*models.Nomination, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	nomination, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleNominee && nomination.NomineeID != actor.UserID {
		return nil, appErrors.ErrForbidden
	}
	if actor.Role != models.RoleNominee && actor.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}
	if nomination.Status != models.StatusDraft || nomination.CurrentStage != models.StageSelfAssessment {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "self assessment can only be submitted from draft")
	}

	rubric, err := s.rubric.Rubric(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessment rubric")
	}
	moduleTotals, score, err := scoreResponses(rubric, req.Responses)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.SubmitSelfAssessment(ctx, repository.SelfAssessmentParams{
		ID:          nomination.ID,
		Responses:   moduleTotals,
		Score:       score,
		SubmittedAt: now,
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "nomination was updated concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit self assessment")
	}

	nomination.Status = models.StatusSubmitted
	nomination.CurrentStage = models.StageSelfAssessment
	nomination.SelfAssessmentScore = score
	nomination.SelfAssessmentResponses = moduleTotals
	nomination.SubmittedAt = &now
	nomination.UpdatedAt = now

	s.emitAudit(ctx, actor.UserID, models.AuditActionNominationSubmit, nomination.ID, map[string]interface{}{
		"self_assessment_score": score,
	})
	s.invalidate(ctx)
	return nomination, nil
}

// RecordDecision applies a committee verdict for the stage named in the
// request. The actor's role must own that stage; the record must hold
// the (status, stage) pair the previous stage's approval left behind.
// Approvals advance the pipeline; a rejection at any stage is terminal.
// The state committee's approval closes the nomination with a grand
// total and an award tier.
func (s *WorkflowService) RecordDecision(ctx context.Context, id string, req dto.CommitteeDecisionRequest, actor *models.JWTClaims) (*models.Nomination, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	stage := req.Stage
	role, ok := stageRoles[stage]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("%s is not a committee stage", stage))
	}
	if actor.Role != models.RoleAdmin && actor.Role != role {
		return nil, appErrors.ErrForbidden
	}

	nomination, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if nomination.IsTerminal() {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "nomination is closed")
	}

	entry := stageEntry[stage]
	if nomination.Status != entry.Status || nomination.CurrentStage != entry.Stage {
		return nil, appErrors.Clone(appErrors.ErrInvalidState,
			fmt.Sprintf("nomination is not awaiting a %s decision", stage))
	}

	now := time.Now().UTC()
	params := repository.DecisionParams{
		ID:             nomination.ID,
		Stage:          stage,
		ExpectedStatus: entry.Status,
		ExpectedStage:  entry.Stage,
		Decision:       req.Decision,
		Remarks:        req.Remarks,
		ActedBy:        actor.UserID,
		ActionDate:     now,
	}

	if req.Decision == models.DecisionRejected {
		rejected := models.FinalStatusRejected
		params.NewStatus = models.StatusRejected
		params.NewStage = stage
		params.FinalStatus = &rejected
	} else {
		if err := s.applyApproval(&params, nomination, req); err != nil {
			return nil, err
		}
	}

	if err := s.repo.RecordDecision(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "another decision was recorded concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record decision")
	}

	applyDecision(nomination, params, now)
	s.metrics.RecordDecision(stage, req.Decision)
	if params.AwardTier != nil {
		s.metrics.RecordAwardTier(*params.AwardTier)
	}
	s.emitAudit(ctx, actor.UserID, models.AuditActionCommitteeDecision, nomination.ID, map[string]interface{}{
		"stage":    stage,
		"decision": req.Decision,
	})
	s.invalidate(ctx)
	return nomination, nil
}

// applyApproval fills the stage-specific score columns and the onward
// (status, stage) pair for an approval.
func (s *WorkflowService) applyApproval(params *repository.DecisionParams, nomination *models.Nomination, req dto.CommitteeDecisionRequest) error {
	switch params.Stage {
	case models.StageCircleCommittee:
		if req.CircleScore == nil {
			return appErrors.Clone(appErrors.ErrValidation, "circle approval requires an endorsed score")
		}
		if *req.CircleScore < 0 || *req.CircleScore > nomination.SelfAssessmentScore {
			return appErrors.Clone(appErrors.ErrScoreOutOfRange,
				fmt.Sprintf("endorsed score must be between 0 and the self-assessed %d", nomination.SelfAssessmentScore))
		}
		params.CircleScore = req.CircleScore
		params.NewStatus = models.StatusCircleReview
		params.NewStage = models.StageCircleCommittee

	case models.StageCorporationCommittee:
		total, err := sumCriteria(req.Scores, models.CorporationCriteriaCount, models.CorporationCriterionMax, "criterion")
		if err != nil {
			return err
		}
		params.Scores = models.ScoreBreakdown(req.Scores)
		params.StageScore = &total
		params.NewStatus = models.StatusCorporationReview
		params.NewStage = models.StageCorporationCommittee

	case models.StageStateCommittee:
		total, err := sumCriteria(req.Scores, models.StateQuestionCount, models.StateQuestionMax, "question")
		if err != nil {
			return err
		}
		corporation := 0
		if nomination.CorporationCommitteeScore != nil {
			corporation = *nomination.CorporationCommitteeScore
		}
		grandTotal := nomination.SelfAssessmentScore + corporation + total
		tier := ComputeAwardTier(grandTotal)
		winner := models.FinalStatusWinner
		params.Scores = models.ScoreBreakdown(req.Scores)
		params.StageScore = &total
		params.GrandTotal = &grandTotal
		params.FinalStatus = &winner
		params.AwardTier = &tier
		params.NewStatus = models.StatusCompleted
		params.NewStage = models.StageFinal

	default:
		return appErrors.Clone(appErrors.ErrInvalidState, "nomination is not under committee review")
	}
	return nil
}

// Get returns a single nomination enforcing ownership for nominees.
func (s *WorkflowService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Nomination, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	nomination, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleNominee && nomination.NomineeID != actor.UserID {
		return nil, appErrors.ErrForbidden
	}
	return nomination, nil
}

// List scopes the listing to what the actor's role may see. Committee
// roles default to their own work queue; nominees see only their records.
func (s *WorkflowService) List(ctx context.Context, query dto.NominationQuery, actor *models.JWTClaims) ([]models.Nomination, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	filter := models.NominationFilter{
		Year:     query.Year,
		Status:   query.Status,
		Stage:    query.Stage,
		Category: query.Category,
		WUAID:    query.WUAID,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}
	queue := false
	switch actor.Role {
	case models.RoleAdmin:
		// unrestricted
	case models.RoleNominee:
		filter.NomineeID = actor.UserID
	case models.RoleCircleCommittee:
		entry := stageEntry[models.StageCircleCommittee]
		filter.Status, filter.Stage = entry.Status, entry.Stage
		queue = true
	case models.RoleCorporationCommittee:
		entry := stageEntry[models.StageCorporationCommittee]
		filter.Status, filter.Stage = entry.Status, entry.Stage
		queue = true
	case models.RoleStateCommittee:
		entry := stageEntry[models.StageStateCommittee]
		filter.Status, filter.Stage = entry.Status, entry.Stage
		queue = true
	default:
		return nil, appErrors.ErrForbidden
	}

	// Committee work queues are read-through cached; transitions purge
	// the nominations:* keyspace.
	key := ""
	if queue && s.cache != nil {
		key = queueCacheKey(filter)
		var cached []models.Nomination
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	nominations, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list nominations")
	}
	if key != "" {
		if err := s.cache.Set(ctx, key, nominations, 0); err != nil {
			s.logger.Warn("failed to cache work queue", zap.Error(err))
		}
	}
	return nominations, nil
}

func queueCacheKey(f models.NominationFilter) string {
	return fmt.Sprintf("nominations:queue:%s:%s:%d:%s:%s:%d:%d",
		f.Status, f.Stage, f.Year, f.Category, f.WUAID, f.Limit, f.Offset)
}

func (s *WorkflowService) load(ctx context.Context, id string) (*models.Nomination, error) {
	nomination, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load nomination")
	}
	return nomination, nil
}

func (s *WorkflowService) emitAudit(ctx context.Context, userID, action, resourceID string, payload interface{}) {
	if s.audit == nil {
		return
	}
	values, err := json.Marshal(payload)
	if err != nil {
		values = nil
	}
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "nomination",
		ResourceID: &resourceID,
		NewValues:  values,
		IPAddress:  "system",
		UserAgent:  "workflow-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func (s *WorkflowService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "nominations:*"); err != nil {
		s.logger.Warn("failed to invalidate nomination caches", zap.Error(err))
	}
}

// stageRoles maps each committee stage to the role that owns it.
var stageRoles = map[models.NominationStage]models.UserRole{
	models.StageCircleCommittee:      models.RoleCircleCommittee,
	models.StageCorporationCommittee: models.RoleCorporationCommittee,
	models.StageStateCommittee:       models.RoleStateCommittee,
}

// stageEntry is the (status, stage) pair a nomination must hold before
// each committee may act on it. The stored stage is the one that acted
// last, so every entry pair is the previous row's approval target.
var stageEntry = map[models.NominationStage]struct {
	Status models.NominationStatus
	Stage  models.NominationStage
}{
	models.StageCircleCommittee:      {models.StatusSubmitted, models.StageSelfAssessment},
	models.StageCorporationCommittee: {models.StatusCircleReview, models.StageCircleCommittee},
	models.StageStateCommittee:       {models.StatusCorporationReview, models.StageCorporationCommittee},
}

// scoreResponses checks every rubric question is answered within bounds
// and folds the answers into per-module totals.
func scoreResponses(rubric *models.Rubric, responses []models.SelfAssessmentResponse) (models.ScoreBreakdown, int, error) {
	index := rubric.QuestionIndex()
	if len(responses) != len(index) {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("expected answers for all %d questions, got %d", len(index), len(responses)))
	}

	answered := make(map[string]int, len(responses))
	for _, resp := range responses {
		question, ok := index[resp.QuestionID]
		if !ok {
			return nil, 0, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("unknown question %s", resp.QuestionID))
		}
		if _, dup := answered[resp.QuestionID]; dup {
			return nil, 0, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("question %s answered more than once", resp.QuestionID))
		}
		if resp.Value < 0 || resp.Value > question.MaxMarks {
			return nil, 0, appErrors.Clone(appErrors.ErrScoreOutOfRange,
				fmt.Sprintf("question %s accepts 0 to %d marks", resp.QuestionID, question.MaxMarks))
		}
		answered[resp.QuestionID] = resp.Value
	}

	totals := make(models.ScoreBreakdown, 0, len(rubric.Modules))
	score := 0
	for _, module := range rubric.Modules {
		moduleTotal := 0
		for _, q := range module.Questions {
			moduleTotal += answered[q.ID]
		}
		if moduleTotal > module.MaxMarks {
			return nil, 0, appErrors.Clone(appErrors.ErrScoreOutOfRange,
				fmt.Sprintf("module %s caps at %d marks", module.Name, module.MaxMarks))
		}
		totals = append(totals, moduleTotal)
		score += moduleTotal
	}
	return totals, score, nil
}

// sumCriteria validates a per-criterion score vector and returns its total.
func sumCriteria(scores []int, count, max int, label string) (int, error) {
	if len(scores) != count {
		return 0, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("exactly %d %s scores are required", count, label))
	}
	total := 0
	for i, v := range scores {
		if v < 0 || v > max {
			return 0, appErrors.Clone(appErrors.ErrScoreOutOfRange,
				fmt.Sprintf("%s %d accepts 0 to %d marks", label, i+1, max))
		}
		total += v
	}
	return total, nil
}

// applyDecision mirrors a recorded decision onto the in-memory record
// for the response body.
func applyDecision(n *models.Nomination, params repository.DecisionParams, now time.Time) {
	n.Status = params.NewStatus
	n.CurrentStage = params.NewStage
	n.UpdatedAt = now
	actedBy := params.ActedBy

	switch params.Stage {
	case models.StageCircleCommittee:
		n.CircleStatus = params.Decision
		n.CircleRemarks = params.Remarks
		n.CircleActionDate = &now
		n.CircleActedBy = &actedBy
		if params.CircleScore != nil {
			n.CircleCommitteeScore = params.CircleScore
		}
	case models.StageCorporationCommittee:
		n.CorporationStatus = params.Decision
		n.CorporationRemarks = params.Remarks
		n.CorporationActionDate = &now
		n.CorporationActedBy = &actedBy
		if params.StageScore != nil {
			n.CorporationScores = params.Scores
			n.CorporationCommitteeScore = params.StageScore
		}
	case models.StageStateCommittee:
		n.StateStatus = params.Decision
		n.StateRemarks = params.Remarks
		n.StateActionDate = &now
		n.StateActedBy = &actedBy
		if params.StageScore != nil {
			n.StateScores = params.Scores
			n.StateCommitteeScore = params.StageScore
		}
	}

	if params.GrandTotal != nil {
		n.GrandTotalScore = params.GrandTotal
	}
	if params.FinalStatus != nil {
		n.FinalStatus = params.FinalStatus
	}
	if params.AwardTier != nil {
		n.AwardCategory = params.AwardTier
	}
}
