// Package scoring holds the pure quiz grading, scoring and progress
// aggregation rules. Nothing here touches storage; callers hand in quiz
// definitions and attempt logs that were already fetched.
package scoring

import (
	"github.com/SAP-F-2025/training-service/internal/models"
)

// GradeAnswer reports whether the submitted answer id is the one flagged
// correct on the question. ok is false when the submission has no answer for
// the question. Ids that belong to another question, and questions authored
// without a correct answer, always grade incorrect.
func GradeAnswer(q *models.Question, submitted uint, ok bool) bool {
	if !ok {
		return false
	}
	correct := q.CorrectAnswer()
	if correct == nil {
		return false
	}
	return correct.ID == submitted
}
