package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/SAP-F-2025/training-service/internal/models"
)

// ProgressSummary is the derived view of one (user, quiz) attempt history.
// It is recomputed from the attempt log on every read and never stored.
type ProgressSummary struct {
	UserID          string     `json:"user_id"`
	QuizID          uint       `json:"quiz_id"`
	TotalAttempts   int        `json:"total_attempts"`
	PassedAttempts  int        `json:"passed_attempts"`
	BestScore       float64    `json:"best_score"`
	AverageScore    float64    `json:"average_score"`
	AttemptsToPass  *int       `json:"attempts_to_pass"`
	CurrentlyPassed bool       `json:"currently_passed"`
	FirstPassDate   *time.Time `json:"first_pass_date"`
}

// OverallMetrics are cohort figures over every group in a report.
type OverallMetrics struct {
	TotalUsers            int     `json:"total_users"`
	TotalQuizzes          int     `json:"total_quizzes"`
	TotalAttempts         int     `json:"total_attempts"`
	AverageAttemptsToPass float64 `json:"average_attempts_to_pass"`
	PassRate              float64 `json:"pass_rate"`
}

// Report groups an attempt log by (user, quiz).
type Report struct {
	Groups  []ProgressSummary `json:"user_quiz_stats"`
	Overall OverallMetrics    `json:"overall_metrics"`
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Chronological returns a copy of attempts ordered by completion time. Ties
// fall back to the row id, which is assigned in insert order.
func Chronological(attempts []models.QuizAttempt) []models.QuizAttempt {
	sorted := make([]models.QuizAttempt, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CompletedAt.Equal(sorted[j].CompletedAt) {
			return sorted[i].CompletedAt.Before(sorted[j].CompletedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// Summarize computes the summary for attempts that all belong to the same
// (user, quiz). Position in the chronological order decides attemptsToPass;
// the stored attempt number is ignored. An empty log yields a zero summary.
func Summarize(attempts []models.QuizAttempt) ProgressSummary {
	summary, _ := summarize(Chronological(attempts))
	return summary
}

// summarize expects attempts already in chronological order and also returns
// the unrounded attemptsToPass for cohort averaging.
func summarize(ordered []models.QuizAttempt) (ProgressSummary, int) {
	var s ProgressSummary
	if len(ordered) == 0 {
		return s, 0
	}

	s.UserID = ordered[0].UserID
	s.QuizID = ordered[0].QuizID

	var sum, best float64
	firstPass := 0
	for i := range ordered {
		a := &ordered[i]
		sum += a.Score
		if i == 0 || a.Score > best {
			best = a.Score
		}
		if !a.Passed {
			continue
		}
		s.PassedAttempts++
		if firstPass == 0 {
			firstPass = i + 1
			completed := a.CompletedAt
			s.FirstPassDate = &completed
		}
	}

	s.TotalAttempts = len(ordered)
	s.BestScore = Round2(best)
	s.AverageScore = Round2(sum / float64(len(ordered)))
	if firstPass > 0 {
		n := firstPass
		s.AttemptsToPass = &n
		s.CurrentlyPassed = true
	}
	return s, firstPass
}

type groupKey struct {
	userID string
	quizID uint
}

// Aggregate groups the log by (user, quiz), summarizes each group and
// computes the cohort metrics. Groups are ordered by user id then quiz id.
func Aggregate(attempts []models.QuizAttempt) Report {
	ordered := Chronological(attempts)

	groups := make(map[groupKey][]models.QuizAttempt)
	var keys []groupKey
	users := make(map[string]struct{})
	quizzes := make(map[uint]struct{})

	for _, a := range ordered {
		k := groupKey{userID: a.UserID, quizID: a.QuizID}
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], a)
		users[a.UserID] = struct{}{}
		quizzes[a.QuizID] = struct{}{}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].userID != keys[j].userID {
			return keys[i].userID < keys[j].userID
		}
		return keys[i].quizID < keys[j].quizID
	})

	report := Report{
		Groups: make([]ProgressSummary, 0, len(keys)),
		Overall: OverallMetrics{
			TotalUsers:    len(users),
			TotalQuizzes:  len(quizzes),
			TotalAttempts: len(attempts),
		},
	}

	passedGroups, attemptsToPassSum := 0, 0
	for _, k := range keys {
		summary, firstPass := summarize(groups[k])
		report.Groups = append(report.Groups, summary)
		if firstPass > 0 {
			passedGroups++
			attemptsToPassSum += firstPass
		}
	}

	if passedGroups > 0 {
		report.Overall.AverageAttemptsToPass = Round2(float64(attemptsToPassSum) / float64(passedGroups))
		report.Overall.PassRate = Round2(float64(passedGroups) / float64(len(keys)) * 100)
	}

	return report
}
