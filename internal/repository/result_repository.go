package repository

import (
	"context"

	"github.com/lshigami/assessment-engine/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResultRepository is the attempt ledger: one row per (assessment, user, attempt).
type ResultRepository interface {
	// FindByPair returns the pair's rows ordered by attempt number. With lock
	// set the rows are read FOR UPDATE where the database supports it.
	FindByPair(ctx context.Context, tx *gorm.DB, assessmentID, userID string, lock bool) ([]model.Result, error)
	FindByID(ctx context.Context, id uint) (*model.Result, error)
	Create(ctx context.Context, tx *gorm.DB, result *model.Result) error
	Update(ctx context.Context, tx *gorm.DB, result *model.Result) error
	CountGraded(ctx context.Context, tx *gorm.DB, assessmentID, userID string) (int64, error)
	// FindGraded lists graded rows of an assessment by graded_at, optionally for one user.
	FindGraded(ctx context.Context, assessmentID string, userID *string) ([]model.Result, error)
	// FindGradedByUser lists a user's graded rows across assessments, newest first.
	FindGradedByUser(ctx context.Context, userID string) ([]model.Result, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *resultRepository) FindByPair(ctx context.Context, tx *gorm.DB, assessmentID, userID string, lock bool) ([]model.Result, error) {
	db := r.getDB(tx).WithContext(ctx)
	// SQLite serialises writers itself and rejects FOR UPDATE.
	if lock && db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var results []model.Result
	err := db.Where("assessment_id = ? AND user_id = ?", assessmentID, userID).
		Order("attempt_number ASC").
		Find(&results).Error
	return results, err
}

func (r *resultRepository) FindByID(ctx context.Context, id uint) (*model.Result, error) {
	var result model.Result
	if err := r.db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) Create(ctx context.Context, tx *gorm.DB, result *model.Result) error {
	return r.getDB(tx).WithContext(ctx).Create(result).Error
}

func (r *resultRepository) Update(ctx context.Context, tx *gorm.DB, result *model.Result) error {
	return r.getDB(tx).WithContext(ctx).Save(result).Error
}

func (r *resultRepository) CountGraded(ctx context.Context, tx *gorm.DB, assessmentID, userID string) (int64, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).Model(&model.Result{}).
		Where("assessment_id = ? AND user_id = ? AND status = ?", assessmentID, userID, model.AttemptGraded).
		Count(&count).Error
	return count, err
}

func (r *resultRepository) FindGraded(ctx context.Context, assessmentID string, userID *string) ([]model.Result, error) {
	db := r.db.WithContext(ctx).Where("assessment_id = ? AND status = ?", assessmentID, model.AttemptGraded)
	if userID != nil {
		db = db.Where("user_id = ?", *userID)
	}
	var results []model.Result
	err := db.Order("graded_at ASC").Order("id ASC").Find(&results).Error
	return results, err
}

func (r *resultRepository) FindGradedByUser(ctx context.Context, userID string) ([]model.Result, error) {
	var results []model.Result
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.AttemptGraded).
		Order("graded_at DESC").Order("id DESC").
		Find(&results).Error
	return results, err
}
