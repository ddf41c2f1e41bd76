package utils

import (
	"coachhub/database"
	"coachhub/models"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
)

// SkillAverages are mean ratings (1-3) per training type; 0 when not evaluated.
type SkillAverages struct {
	Vision       float64 `json:"vision"`
	Rhythm       float64 `json:"rhythm"`
	Coordination float64 `json:"coordination"`
}

// BadgeCategoryProgress is progress toward the student's current tier in one category.
type BadgeCategoryProgress struct {
	Category  string  `json:"category"`
	BadgeType string  `json:"badge_type"`
	Earned    int     `json:"earned"`
	Required  int     `json:"required"`
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
}

// MonthlyReportData is the aggregation for one student and month.
type MonthlyReportData struct {
	StudentID       uint                    `json:"student_id"`
	StudentName     string                  `json:"student_name"`
	Year            int                     `json:"year"`
	Month           int                     `json:"month"`
	PeriodStart     string                  `json:"period_start"`
	PeriodEnd       string                  `json:"period_end"`
	AttendanceRate  float64                 `json:"attendance_rate"`
	PresentCount    int                     `json:"present_count"`
	TotalLessons    int                     `json:"total_lessons"`
	EvaluationCount int                     `json:"evaluation_count"`
	SkillAverages   SkillAverages           `json:"skill_averages"`
	BadgesEarned    int                     `json:"badges_earned"`
	BadgeProgress   []BadgeCategoryProgress `json:"badge_progress"`
	CurrentLevel    int                     `json:"current_level"`
	ExpectedLevel   int                     `json:"expected_level"`
	OnTrack         bool                    `json:"on_track"`
}

// PeriodBounds returns [first day of month, first day of next month) as YYYY-MM-DD.
func PeriodBounds(year, month int) (string, string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return start.Format(models.DateLayout), end.Format(models.DateLayout)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// AttendanceRate is present / total, 0 when there were no lessons.
func AttendanceRate(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return round(float64(present)/float64(total), 3)
}

// ComputeBadgeProgress compares earned counts per category with the tier threshold.
// earned is keyed by category then badge type.
func ComputeBadgeProgress(level int, earned map[string]map[string]int) []BadgeCategoryProgress {
	tier := models.BadgeTypeForLevel(level)
	required := models.BadgeRequiredCount(tier)

	out := make([]BadgeCategoryProgress, 0, len(models.TrainingTypes))
	for _, category := range models.TrainingTypes {
		n := earned[category][tier]
		progress := 0.0
		if required > 0 {
			progress = math.Min(1, float64(n)/float64(required))
		}
		out = append(out, BadgeCategoryProgress{
			Category:  category,
			BadgeType: tier,
			Earned:    n,
			Required:  required,
			Progress:  round(progress, 2),
			Completed: n >= required,
		})
	}
	return out
}

// OnTrack compares the current level with the level expected after monthsEnrolled.
func OnTrack(level, monthsEnrolled int) (int, bool) {
	expected := models.ExpectedLevel(monthsEnrolled)
	return expected, level >= expected
}

type statusCount struct {
	Status string `db:"status"`
	N      int    `db:"n"`
}

type skillAverageRow struct {
	TrainingType string  `db:"training_type"`
	AvgRating    float64 `db:"avg_rating"`
	N            int     `db:"n"`
}

type badgeCountRow struct {
	Category  string `db:"category"`
	BadgeType string `db:"badge_type"`
	N         int    `db:"n"`
}

// BuildMonthlyReport aggregates attendance, evaluations and badges for one month.
func BuildMonthlyReport(ctx context.Context, studentID uint, year, month int, now time.Time) (*MonthlyReportData, error) {
	if month < 1 || month > 12 {
		return nil, ErrBadRequest("month の値が不正です")
	}

	var student models.Student
	if err := database.Database.Db.WithContext(ctx).First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("生徒が見つかりません")
		}
		return nil, err
	}

	start, end := PeriodBounds(year, month)
	sx := database.Database.Sqlx

	report := &MonthlyReportData{
		StudentID:    student.ID,
		StudentName:  student.Name,
		Year:         year,
		Month:        month,
		PeriodStart:  start,
		PeriodEnd:    end,
		CurrentLevel: student.Level,
	}

	var attendance []statusCount
	if err := sx.SelectContext(ctx, &attendance, sx.Rebind(`
		SELECT status, COUNT(*) AS n
		FROM attendances
		WHERE student_id = ? AND lesson_date >= ? AND lesson_date < ?
		GROUP BY status`), studentID, start, end); err != nil {
		return nil, fmt.Errorf("attendance aggregation: %w", err)
	}
	for _, row := range attendance {
		report.TotalLessons += row.N
		if (models.Attendance{Status: row.Status}).CountsAsPresent() {
			report.PresentCount += row.N
		}
	}
	report.AttendanceRate = AttendanceRate(report.PresentCount, report.TotalLessons)

	var skills []skillAverageRow
	if err := sx.SelectContext(ctx, &skills, sx.Rebind(`
		SELECT s.training_type AS training_type, AVG(e.rating * 1.0) AS avg_rating, COUNT(*) AS n
		FROM evaluations e
		JOIN skill_items s ON s.id = e.skill_item_id
		WHERE e.student_id = ? AND e.evaluation_date >= ? AND e.evaluation_date < ?
		GROUP BY s.training_type`), studentID, start, end); err != nil {
		return nil, fmt.Errorf("evaluation aggregation: %w", err)
	}
	for _, row := range skills {
		report.EvaluationCount += row.N
		switch row.TrainingType {
		case models.TrainingVision:
			report.SkillAverages.Vision = round(row.AvgRating, 2)
		case models.TrainingRhythm:
			report.SkillAverages.Rhythm = round(row.AvgRating, 2)
		case models.TrainingCoordination:
			report.SkillAverages.Coordination = round(row.AvgRating, 2)
		}
	}

	var badges []badgeCountRow
	if err := sx.SelectContext(ctx, &badges, sx.Rebind(`
		SELECT category, badge_type, COUNT(*) AS n
		FROM badges
		WHERE student_id = ?
		GROUP BY category, badge_type`), studentID); err != nil {
		return nil, fmt.Errorf("badge aggregation: %w", err)
	}
	earned := map[string]map[string]int{}
	for _, row := range badges {
		if earned[row.Category] == nil {
			earned[row.Category] = map[string]int{}
		}
		earned[row.Category][row.BadgeType] = row.N
	}
	report.BadgeProgress = ComputeBadgeProgress(student.Level, earned)

	if err := sx.GetContext(ctx, &report.BadgesEarned, sx.Rebind(`
		SELECT COUNT(*) FROM badges
		WHERE student_id = ? AND earned_date >= ? AND earned_date < ?`),
		studentID, start, end); err != nil {
		return nil, fmt.Errorf("badge count: %w", err)
	}

	report.ExpectedLevel, report.OnTrack = OnTrack(student.Level, monthsEnrolled(student, end, now))
	return report, nil
}

// monthsEnrolled counts from enrollment (or row creation) to the end of the period,
// never past now.
func monthsEnrolled(student models.Student, periodEnd string, now time.Time) int {
	enrolled := student.CreatedAt
	if student.EnrollmentDate != "" {
		if t, err := models.ParseDate(student.EnrollmentDate, now.Location()); err == nil {
			enrolled = t
		}
	}
	ref := now
	if end, err := models.ParseDate(periodEnd, now.Location()); err == nil && end.Before(now) {
		ref = end.AddDate(0, 0, -1)
	}
	return models.MonthsBetween(enrolled, ref)
}
