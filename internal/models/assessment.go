package models

import "time"

// AssessmentModule is one section of the self-assessment rubric. The five
// modules carry fixed maxima of 30/40/50/25/20 marks (150 total) and are
// immutable at runtime; they exist only to validate submitted scores.
type AssessmentModule struct {
	ID        string    `db:"id" json:"id"`
	Seq       int       `db:"seq" json:"seq"`
	Name      string    `db:"name" json:"name"`
	MaxMarks  int       `db:"max_marks" json:"max_marks"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Questions []AssessmentQuestion `json:"questions,omitempty"`
}

// AssessmentQuestion is a single scored item within a module.
type AssessmentQuestion struct {
	ID       string `db:"id" json:"id"`
	ModuleID string `db:"module_id" json:"module_id"`
	Seq      int    `db:"seq" json:"seq"`
	Text     string `db:"text" json:"text"`
	MaxMarks int    `db:"max_marks" json:"max_marks"`
}

// SelfAssessmentResponse is a nominee's selected value for one question.
type SelfAssessmentResponse struct {
	QuestionID string `json:"question_id" validate:"required"`
	Value      int    `json:"value" validate:"min=0"`
}

// Rubric is the full self-assessment reference data keyed for validation.
type Rubric struct {
	Modules []AssessmentModule `json:"modules"`
}

// QuestionIndex builds a lookup of question ID to question across modules.
func (r *Rubric) QuestionIndex() map[string]AssessmentQuestion {
	index := make(map[string]AssessmentQuestion)
	for _, module := range r.Modules {
		for _, q := range module.Questions {
			index[q.ID] = q
		}
	}
	return index
}

// ModuleByID returns the module owning the given ID.
func (r *Rubric) ModuleByID(id string) *AssessmentModule {
	for i := range r.Modules {
		if r.Modules[i].ID == id {
			return &r.Modules[i]
		}
	}
	return nil
}

// MaxTotal sums the module maxima.
func (r *Rubric) MaxTotal() int {
	total := 0
	for _, m := range r.Modules {
		total += m.MaxMarks
	}
	return total
}
