package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wrd-mh/pah-award-api/internal/models"
)

// AssessmentRepository reads the immutable scoring rubric. The rubric is
// seeded at deploy time; no write path exists at runtime.
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository constructs the repository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Rubric loads all modules with their questions ordered by sequence.
func (r *AssessmentRepository) Rubric(ctx context.Context) (*models.Rubric, error) {
	const moduleQuery = `SELECT id, seq, name, max_marks, created_at FROM assessment_modules ORDER BY seq`
	var modules []models.AssessmentModule
	if err := r.db.SelectContext(ctx, &modules, moduleQuery); err != nil {
		return nil, fmt.Errorf("load assessment modules: %w", err)
	}

	const questionQuery = `SELECT id, module_id, seq, text, max_marks FROM assessment_questions ORDER BY module_id, seq`
	var questions []models.AssessmentQuestion
	if err := r.db.SelectContext(ctx, &questions, questionQuery); err != nil {
		return nil, fmt.Errorf("load assessment questions: %w", err)
	}

	byModule := make(map[string][]models.AssessmentQuestion, len(modules))
	for _, q := range questions {
		byModule[q.ModuleID] = append(byModule[q.ModuleID], q)
	}
	for i := range modules {
		modules[i].Questions = byModule[modules[i].ID]
	}

	return &models.Rubric{Modules: modules}, nil
}
