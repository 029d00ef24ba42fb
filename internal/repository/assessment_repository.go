package repository

import (
	"context"

	"github.com/lshigami/assessment-engine/internal/model"
	"gorm.io/gorm"
)

// AssessmentRepository stores assessments together with their answer keys.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *model.Assessment) error
	FindByID(ctx context.Context, tx *gorm.DB, id string) (*model.Assessment, error)
	FindAll(ctx context.Context) ([]model.Assessment, error)
	FindAssignedTo(ctx context.Context, userID string) ([]model.Assessment, error)
	Update(ctx context.Context, tx *gorm.DB, assessment *model.Assessment) error
	Delete(ctx context.Context, id string) error
}

type assessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) error {
	return r.db.WithContext(ctx).Create(assessment).Error
}

func (r *assessmentRepository) FindByID(ctx context.Context, tx *gorm.DB, id string) (*model.Assessment, error) {
	var assessment model.Assessment
	if err := r.getDB(tx).WithContext(ctx).Where("id = ?", id).First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepository) FindAll(ctx context.Context) ([]model.Assessment, error) {
	var assessments []model.Assessment
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&assessments).Error
	return assessments, err
}

// FindAssignedTo filters in Go so the same query works on PostgreSQL and SQLite.
func (r *assessmentRepository) FindAssignedTo(ctx context.Context, userID string) ([]model.Assessment, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	assigned := make([]model.Assessment, 0, len(all))
	for i := range all {
		if all[i].IsAssignedTo(userID) {
			assigned = append(assigned, all[i])
		}
	}
	return assigned, nil
}

func (r *assessmentRepository) Update(ctx context.Context, tx *gorm.DB, assessment *model.Assessment) error {
	return r.getDB(tx).WithContext(ctx).Save(assessment).Error
}

func (r *assessmentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Assessment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
