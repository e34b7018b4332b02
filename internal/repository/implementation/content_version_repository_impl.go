package implementation

import (
	"context"
	"errors"

	"interview-prep-be/internal/entity"
	"interview-prep-be/internal/mapper"
	"interview-prep-be/internal/model"
	"interview-prep-be/internal/repository/contract"
	"interview-prep-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentVersionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentVersionMapper
}

func NewContentVersionRepository(db *gorm.DB) contract.ContentVersionRepository {
	return &ContentVersionRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentVersionMapper(),
	}
}

func (r *ContentVersionRepositoryImpl) Create(ctx context.Context, version *entity.ContentVersion) error {
	m, err := r.mapper.ToModel(version)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	created, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*version = *created
	return nil
}

func (r *ContentVersionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContentVersion, error) {
	var m model.TopicContentVersion
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *ContentVersionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContentVersion, error) {
	var models []*model.TopicContentVersion
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models)
}

type CurrentVersionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentVersionMapper
}

func NewCurrentVersionRepository(db *gorm.DB) contract.CurrentVersionRepository {
	return &CurrentVersionRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentVersionMapper(),
	}
}

func (r *CurrentVersionRepositoryImpl) Upsert(ctx context.Context, pointer *entity.CurrentVersion) error {
	m := r.mapper.CurrentToModel(pointer)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "topic_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"version_id", "owner_id", "updated_at"}),
	}).Create(m).Error
}

func (r *CurrentVersionRepositoryImpl) FindByTopicID(ctx context.Context, topicID uuid.UUID) (*entity.CurrentVersion, error) {
	var m model.TopicCurrentVersion
	if err := r.db.WithContext(ctx).Where("topic_id = ?", topicID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CurrentToEntity(&m), nil
}

func (r *CurrentVersionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CurrentVersion, error) {
	var models []*model.TopicCurrentVersion
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.CurrentVersion, len(models))
	for i, m := range models {
		out[i] = r.mapper.CurrentToEntity(m)
	}
	return out, nil
}
