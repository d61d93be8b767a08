// Package reports validates generated data by reading it back from the
// database and re-checking the invariants the simulator promises, then
// aggregates outcomes per persona for eyeballing the archetype separation.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/learnpath/datasim/internal/models"
	"github.com/learnpath/datasim/internal/utils"
	"gorm.io/gorm"
)

// Violation is one failed consistency check with the number of offending
// rows.
type Violation struct {
	Check string `json:"check"`
	Count int64  `json:"count"`
}

// PersonaAggregate summarizes one archetype's generated outcomes.
type PersonaAggregate struct {
	Persona              string  `json:"persona"`
	Users                int64   `json:"users"`
	Sessions             int64   `json:"sessions"`
	QuizAttempts         int64   `json:"quiz_attempts"`
	AvgQuizScore         float64 `json:"avg_quiz_score"`
	PassRate             float64 `json:"pass_rate"`
	LessonCompletionRate float64 `json:"lesson_completion_rate"`
}

type Report struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Counts      map[string]int64   `json:"counts"`
	Violations  []Violation        `json:"violations"`
	Personas    []PersonaAggregate `json:"personas"`
}

func (r *Report) HasViolations() bool {
	return len(r.Violations) > 0
}

type Checker struct {
	db     *gorm.DB
	logger utils.Logger
}

func NewChecker(db *gorm.DB, logger utils.Logger) *Checker {
	return &Checker{db: db, logger: logger}
}

// consistencyChecks are counting queries; any nonzero result is a
// violation. They restate the generator's invariants in SQL so the report
// does not share code with the code it is auditing.
var consistencyChecks = []struct {
	name  string
	query string
}{
	{
		"quiz attempt completed before it started",
		`SELECT COUNT(*) FROM quiz_attempts WHERE completed_at < started_at`,
	},
	{
		"quiz attempt score differs from response sum",
		`SELECT COUNT(*) FROM quiz_attempts a
		 WHERE a.score <> (SELECT COALESCE(SUM(r.points_earned), 0)
		                   FROM question_responses r WHERE r.attempt_id = a.id)`,
	},
	{
		"pass flag disagrees with the 60% threshold",
		`SELECT COUNT(*) FROM quiz_attempts
		 WHERE is_passed <> (score * 10 >= max_score * 6)`,
	},
	{
		"attempt number sequence has gaps",
		`SELECT COUNT(*) FROM quiz_attempts a
		 WHERE a.attempt_number > 1 AND NOT EXISTS (
		   SELECT 1 FROM quiz_attempts p
		   WHERE p.user_id = a.user_id AND p.quiz_id = a.quiz_id
		     AND p.attempt_number = a.attempt_number - 1)`,
	},
	{
		"more than three attempts per user and quiz",
		`SELECT COUNT(*) FROM (
		   SELECT 1 FROM quiz_attempts
		   GROUP BY user_id, quiz_id HAVING COUNT(*) > 3) x`,
	},
	{
		"question response outside its attempt window",
		`SELECT COUNT(*) FROM question_responses r
		 JOIN quiz_attempts a ON a.id = r.attempt_id
		 WHERE r.answered_at < a.started_at OR r.answered_at > a.completed_at`,
	},
	{
		"question response without an attempt",
		`SELECT COUNT(*) FROM question_responses r
		 WHERE NOT EXISTS (SELECT 1 FROM quiz_attempts a WHERE a.id = r.attempt_id)`,
	},
	{
		"activity log outside its session interval",
		`SELECT COUNT(*) FROM activity_logs al
		 JOIN user_sessions s ON s.id = al.session_id
		 WHERE al.timestamp < s.started_at OR al.timestamp > s.ended_at`,
	},
	{
		"activity log without a session",
		`SELECT COUNT(*) FROM activity_logs al
		 WHERE NOT EXISTS (SELECT 1 FROM user_sessions s WHERE s.id = al.session_id)`,
	},
	{
		"course activity precedes the enrollment",
		`SELECT COUNT(*) FROM activity_logs al
		 JOIN enrollments e ON e.user_id = al.user_id AND e.course_id = al.resource_id
		 WHERE al.resource_type = 'course' AND al.timestamp < e.enrolled_at`,
	},
	{
		"completed lesson progress with inconsistent fields",
		`SELECT COUNT(*) FROM lesson_progress
		 WHERE is_completed AND (progress_percentage <> 100 OR completed_at IS NULL)`,
	},
	{
		"enrollment completed before it began",
		`SELECT COUNT(*) FROM enrollments
		 WHERE completed_at IS NOT NULL AND completed_at < enrolled_at`,
	},
}

// Run executes every consistency check and builds the persona aggregates.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		GeneratedAt: time.Now().UTC(),
		Counts:      make(map[string]int64),
	}

	for _, model := range models.AllTables() {
		stmt := gorm.Statement{DB: c.db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to resolve table name: %w", err)
		}
		var n int64
		if err := c.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", stmt.Schema.Table, err)
		}
		report.Counts[stmt.Schema.Table] = n
	}

	for _, check := range consistencyChecks {
		var n int64
		if err := c.db.WithContext(ctx).Raw(check.query).Scan(&n).Error; err != nil {
			return nil, fmt.Errorf("consistency check %q failed to run: %w", check.name, err)
		}
		if n > 0 {
			c.logger.Warn("consistency check failed", "check", check.name, "rows", n)
			report.Violations = append(report.Violations, Violation{Check: check.name, Count: n})
		}
	}

	if err := c.db.WithContext(ctx).Raw(`
		SELECT pr.persona AS persona,
		       COUNT(*) AS users,
		       (SELECT COUNT(*) FROM user_sessions s
		        JOIN profiles p2 ON p2.user_id = s.user_id
		        WHERE p2.persona = pr.persona) AS sessions,
		       (SELECT COUNT(*) FROM quiz_attempts a
		        JOIN profiles p3 ON p3.user_id = a.user_id
		        WHERE p3.persona = pr.persona) AS quiz_attempts,
		       (SELECT COALESCE(AVG(CAST(a.score AS FLOAT) / a.max_score), 0)
		        FROM quiz_attempts a
		        JOIN profiles p4 ON p4.user_id = a.user_id
		        WHERE p4.persona = pr.persona AND a.max_score > 0) AS avg_quiz_score,
		       (SELECT COALESCE(AVG(CASE WHEN a.is_passed THEN 1.0 ELSE 0.0 END), 0)
		        FROM quiz_attempts a
		        JOIN profiles p5 ON p5.user_id = a.user_id
		        WHERE p5.persona = pr.persona) AS pass_rate,
		       (SELECT COALESCE(AVG(CASE WHEN lp.is_completed THEN 1.0 ELSE 0.0 END), 0)
		        FROM lesson_progress lp
		        JOIN profiles p6 ON p6.user_id = lp.user_id
		        WHERE p6.persona = pr.persona) AS lesson_completion_rate
		FROM profiles pr
		GROUP BY pr.persona
		ORDER BY pr.persona`).Scan(&report.Personas).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate personas: %w", err)
	}

	return report, nil
}
