package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/assessment-engine/config"
	"github.com/lshigami/assessment-engine/database"
	"github.com/lshigami/assessment-engine/internal/dto"
	"github.com/lshigami/assessment-engine/internal/grading"
	"github.com/lshigami/assessment-engine/internal/model"
	"github.com/lshigami/assessment-engine/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db          *gorm.DB
	assessments repository.AssessmentRepository
	results     repository.ResultRepository
	attempts    AttemptService
	authoring   AssessmentService
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Assessment.MaxBankSize = 150
	cfg.Assessment.MaxPresented = 100
	cfg.Assessment.SelectionSecret = "test-secret"
	return cfg
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return buildFixture(t, db, testConfig())
}

// newFileFixture opens an on-disk SQLite ledger the way the server does.
func newFileFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig()
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "ledger.db")
	db, err := database.NewDatabase(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return buildFixture(t, db, cfg)
}

func buildFixture(t *testing.T, db *gorm.DB, cfg *config.Config) *fixture {
	t.Helper()
	require.NoError(t, db.AutoMigrate(&model.Assessment{}, &model.Result{}))

	f := &fixture{
		db:          db,
		assessments: repository.NewAssessmentRepository(db),
		results:     repository.NewResultRepository(db),
	}
	f.attempts = NewAttemptService(db, f.assessments, f.results, NewScoreConverterService(), cfg)
	f.authoring = NewAssessmentService(f.assessments, f.results, nil, cfg)
	return f
}

func (f *fixture) seed(t *testing.T, id string, questions []model.Question, assigned ...string) {
	t.Helper()
	a := &model.Assessment{ID: id, Title: "Assessment " + id}
	require.NoError(t, a.SetQuestions(questions))
	a.SetAssignedUsers(assigned)
	require.NoError(t, f.assessments.Create(context.Background(), a))
}

func (f *fixture) rows(t *testing.T, assessmentID, userID string) []model.Result {
	t.Helper()
	rows, err := f.results.FindByPair(context.Background(), nil, assessmentID, userID, false)
	require.NoError(t, err)
	return rows
}

func twoQuestions() []model.Question {
	return []model.Question{
		{ID: "Q1", CorrectOptionID: "A", Points: 1, Options: []model.Option{{ID: "A"}, {ID: "B"}, {ID: "C"}}},
		{ID: "Q2", CorrectOptionID: "B", Points: 1, Options: []model.Option{{ID: "A"}, {ID: "B"}, {ID: "C"}}},
	}
}

func bank(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			ID:              fmt.Sprintf("q%03d", i),
			CorrectOptionID: "a",
			Options:         []model.Option{{ID: "a"}, {ID: "b"}},
		}
	}
	return qs
}

func submission(user string, started time.Time, answers map[string]string) dto.GradeSubmissionDTO {
	submitted := started.Add(2 * time.Minute)
	req := dto.GradeSubmissionDTO{UserID: user, TimeStarted: &started, TimeSubmitted: &submitted}
	for q, o := range answers {
		req.Answers = append(req.Answers, dto.AnswerDTO{QuestionID: q, OptionID: o})
	}
	return req
}

func detailFor(t *testing.T, res *dto.AttemptResultDTO, questionID string) dto.QuestionResultDTO {
	t.Helper()
	for _, d := range res.Detailed {
		if d.QuestionID == questionID {
			return d
		}
	}
	t.Fatalf("no detail for %s", questionID)
	return dto.QuestionResultDTO{}
}

func TestStart_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "a1", twoQuestions())

	first, err := f.attempts.Start(ctx, "a1", "u1")
	require.NoError(t, err)
	second, err := f.attempts.Start(ctx, "a1", "u1")
	require.NoError(t, err)

	assert.Equal(t, first.ResultID, second.ResultID)
	assert.Equal(t, 1, first.AttemptNumber)
	rows := f.rows(t, "a1", "u1")
	require.Len(t, rows, 1)
	assert.Equal(t, model.AttemptStarted, rows[0].Status)
	assert.Zero(t, rows[0].TotalQuestions)
}

func TestStart_HidesAnswerKeyAndCapsPresentation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "a1", bank(120))

	resp, err := f.attempts.Start(ctx, "a1", "u1")
	require.NoError(t, err)
	assert.Len(t, resp.Assessment.Questions, 100)

	again, err := f.attempts.PresentedAssessment(ctx, "a1", "u1")
	require.NoError(t, err)
	assert.Equal(t, resp.Assessment.Questions, again.Questions, "reload shows the same subset")
}

func TestStart_UnknownAssessment(t *testing.T) {
	f := newFixture(t)
	_, err := f.attempts.Start(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestGrade_OverwritesPlaceholder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "a1", twoQuestions())

	started, err := f.attempts.Start(ctx, "a1", "u1")
	require.NoError(t, err)

	res, err := f.attempts.Grade(ctx, "a1", submission("u1", time.Now(), map[string]string{"Q1": "A", "Q2": "C"}))
	require.NoError(t, err)

	assert.Equal(t, started.ResultID, res.ID, "same row identity")
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, 2.0, res.MaxScore)
	assert.Equal(t, 50.0, res.ScorePercent)
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, 50.0, res.Analytics.AccuracyPercent)
	assert.InDelta(t, 120.0, res.Analytics.TimeTakenSeconds, 1e-6)
	require.Len(t, res.Detailed, 2)
	assert.True(t, detailFor(t, res, "Q1").IsCorrect)
	q2 := detailFor(t, res, "Q2")
	require.NotNil(t, q2.Selected)
	assert.Equal(t, "C", *q2.Selected)
	assert.Equal(t, "B", q2.Correct)
	assert.False(t, q2.IsCorrect)

	rows := f.rows(t, "a1", "u1")
	require.Len(t, rows, 1)
	assert.Equal(t, model.AttemptGraded, rows[0].Status)
	assert.Equal(t, 2, rows[0].TotalQuestions)
}

func TestGrade_UnansweredQuestion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "a1", twoQuestions())

	res, err := f.attempts.Grade(ctx, "a1", submission("u1", time.Now(), map[string]string{"Q1": "A"}))
	require.NoError(t, err)
	require.Len(t, res.Detailed, 2)
	q2 := detailFor(t, res, "Q2")
	assert.Nil(t, q2.Selected)
	assert.False(t, q2.IsCorrect)
	assert.Zero(t, q2.PointsAwarded)
}

func TestGrade_WithoutStartInsertsFirstAttempt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "a1", twoQuestions())

	res, err := f.attempts.Grade(ctx, "a1", submission("u1", time.Now(), nil))
	require.NoError(t, err)
	assert.Equal(t, 1, res.AttemptNumber)
	assert.Len(t, f.rows(t, "a1", "u1"), 1)
}

func TestGrade_GradesOnlyPresentedSubset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "a1", bank(130))

	started, err := f.attempts.Start(ctx, "a1", "u1")
	require.NoError(t, err)
	answers := make(map[string]string)
	for _, q := range bank(130) {
		answers[q.ID] = "a"
	}

	res, err := f.attempts.Grade(ctx, "a1", submission("u1", started.StartedAt, answers))
	require.NoError(t, err)
	assert.Equal(t, 100, res.TotalQuestions)
	assert.Equal(t, 100, res.CorrectCount)
	assert.Equal(t, BandPerfect, res.PerformanceBand)
}

func TestGrade_DuplicateDeliveryLastWriteWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "a1", twoQuestions())
	startedAt := time.Date(2025, 5, 4, 9, 30, 0, 0, time.UTC)

	_, err := f.attempts.Start(ctx, "a1", "u1")
	require.NoError(t, err)
	_, err = f.attempts.Grade(ctx, "a1", submission("u1", startedAt, map[string]string{"Q1": "B"}))
	require.NoError(t, err)
	res, err := f.attempts.Grade(ctx, "a1", submission("u1", startedAt, map[string]string{"Q1": "A"}))
	require.NoError(t, err)

	rows := f.rows(t, "a1", "u1")
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].CorrectCount)
	assert.Equal(t, rows[0].ID, res.ID)
}

func TestGrade_RejectsUngrantedNewAttempt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "a1", twoQuestions())

	_, err := f.attempts.Grade(ctx, "a1", submission("u1", time.Now().Add(-time.Hour), nil))
	require.NoError(t, err)
	_, err = f.attempts.Grade(ctx, "a1", submission("u1", time.Now(), nil))
	assert.ErrorIs(t, err, ErrAlreadyAttempted)
	assert.Len(t, f.rows(t, "a1", "u1"), 1)
}

func TestGrade_ErrorsSurfaceUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "empty", nil)

	_, err := f.attempts.Grade(ctx, "missing", submission("u1", time.Now(), nil))
	assert.ErrorIs(t, err, ErrAssessmentNotFound)

	_, err = f.attempts.Grade(ctx, "empty", submission("u1", time.Now(), nil))
	assert.ErrorIs(t, err, grading.ErrInvalidSubmission)
	assert.Empty(t, f.rows(t, "empty", "u1"), "failed grading leaves no row")
}

func TestRetakeLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "a1", twoQuestions(), "u1")

	ok, err := f.attempts.CanAttempt(ctx, "a1", "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.attempts.Start(ctx, "a1", "u1")
	require.NoError(t, err)
	ok, err = f.attempts.CanAttempt(ctx, "a1", "u1")
	require.NoError(t, err)
	assert.True(t, ok, "a placeholder does not block")

	first, err := f.attempts.Grade(ctx, "a1", submission("u1", time.Now().Add(-time.Hour), map[string]string{"Q1": "A"}))
	require.NoError(t, err)
	ok, err = f.attempts.CanAttempt(ctx, "a1", "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.authoring.GrantRetake(ctx, "a1", "u1")
	require.NoError(t, err)
	ok, err = f.attempts.CanAttempt(ctx, "a1", "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	restart, err := f.attempts.Start(ctx, "a1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, restart.AttemptNumber)

	second, err := f.attempts.Grade(ctx, "a1", submission("u1", time.Now(), map[string]string{"Q1": "A", "Q2": "B"}))
	require.NoError(t, err)

	rows := f.rows(t, "a1", "u1")
	require.Len(t, rows, 2)
	n, err := f.attempts.AttemptNumber(ctx, "a1", "u1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = f.attempts.AttemptNumber(ctx, "a1", "u1", second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ok, err = f.attempts.CanAttempt(ctx, "a1", "u1")
	require.NoError(t, err)
	assert.False(t, ok, "the grant is used up by the retake")

	history, err := f.attempts.UserResults(ctx, "a1", "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].AttemptNumber)
	assert.Equal(t, 2, history[1].AttemptNumber)

	report, err := f.attempts.ListResults(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.False(t, report.Results[0].IsReattempt)
	assert.True(t, report.Results[1].IsReattempt)

	_, err = f.attempts.AttemptNumber(ctx, "a1", "u1", 9999)
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestCanAttempt_UnknownAssessment(t *testing.T) {
	f := newFixture(t)
	_, err := f.attempts.CanAttempt(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestStart_ConcurrentCallsShareOnePlaceholder(t *testing.T) {
	ctx := context.Background()
	f := newFileFixture(t)
	f.seed(t, "a1", twoQuestions())

	const callers = 8
	var wg sync.WaitGroup
	ids := make([]uint, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.attempts.Start(ctx, "a1", "u1")
			errs[i] = err
			if err == nil {
				ids[i] = resp.ResultID
			}
		}(i)
	}
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	rows := f.rows(t, "a1", "u1")
	require.Len(t, rows, 1)
	assert.Equal(t, model.AttemptStarted, rows[0].Status)
	assert.Equal(t, 1, rows[0].AttemptNumber)
}

func TestGrade_ConcurrentSubmissionsGradeOnce(t *testing.T) {
	ctx := context.Background()
	f := newFileFixture(t)
	f.seed(t, "a1", twoQuestions())
	_, err := f.attempts.Start(ctx, "a1", "u1")
	require.NoError(t, err)

	const callers = 4
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := submission("u1", base.Add(time.Duration(i)*time.Second), map[string]string{"Q1": "A", "Q2": "B"})
			_, errs[i] = f.attempts.Grade(ctx, "a1", req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyAttempted)
	}
	assert.Equal(t, 1, succeeded)

	rows := f.rows(t, "a1", "u1")
	require.Len(t, rows, 1)
	assert.Equal(t, model.AttemptGraded, rows[0].Status)
	assert.Equal(t, 1, rows[0].AttemptNumber)
	assert.Equal(t, 2, rows[0].TotalQuestions)
}

func TestGrade_FallsBackToServerStartTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "a1", twoQuestions())
	_, err := f.attempts.Start(ctx, "a1", "u1")
	require.NoError(t, err)

	started := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, f.db.Model(&model.Result{}).
		Where("assessment_id = ? AND user_id = ?", "a1", "u1").
		Update("started_at", started).Error)

	submitted := started.Add(90 * time.Second)
	res, err := f.attempts.Grade(ctx, "a1", dto.GradeSubmissionDTO{
		UserID:        "u1",
		TimeSubmitted: &submitted,
		Answers:       []dto.AnswerDTO{{QuestionID: "Q1", OptionID: "A"}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 90.0, res.Analytics.TimeTakenSeconds, 1e-6)
	require.NotNil(t, res.TimeStarted)
	assert.True(t, started.Equal(*res.TimeStarted))
}

func TestResultsByUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "a1", twoQuestions())
	f.seed(t, "a2", twoQuestions())
	started := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	_, err := f.attempts.Grade(ctx, "a1", submission("u1", started, map[string]string{"Q1": "A", "Q2": "B"}))
	require.NoError(t, err)
	_, err = f.attempts.Grade(ctx, "a2", submission("u1", started, map[string]string{"Q1": "A"}))
	require.NoError(t, err)
	_, err = f.attempts.Grade(ctx, "a2", submission("u2", started, nil))
	require.NoError(t, err)

	resp, err := f.attempts.ResultsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.UserID)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "a2", resp.Results[0].AssessmentID, "newest first")
	assert.Equal(t, "Assessment a2", resp.Results[0].AssessmentTitle)
	assert.Equal(t, 50.0, resp.Results[0].Percentage)
	assert.Equal(t, "a1", resp.Results[1].AssessmentID)
	assert.Equal(t, 100.0, resp.Results[1].Percentage)
	assert.Equal(t, BandPerfect, resp.Results[1].PerformanceBand)
	assert.NotNil(t, resp.Results[1].GradedAt)

	require.NoError(t, f.authoring.DeleteAssessment(ctx, "a1"))
	resp, err = f.attempts.ResultsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, unknownAssessmentTitle, resp.Results[1].AssessmentTitle)

	empty, err := f.attempts.ResultsByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty.Results)
	assert.Empty(t, empty.Results)
}
