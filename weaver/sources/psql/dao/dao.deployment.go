package dao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"weaver/weaver/apperrors"
	"weaver/weaver/sources/psql/models"
)

type DeploymentDAO struct {
	DB *gorm.DB
}

func NewDeploymentDAO(db *gorm.DB) *DeploymentDAO {
	return &DeploymentDAO{DB: db}
}

// StorageKey builds the namespaced key a record is stored and served under.
func StorageKey(userID, slug string) string {
	return fmt.Sprintf("api/results/%s/%s", userID, slug)
}

// ExistsKey reports whether a record is already stored under key.
func (dao *DeploymentDAO) ExistsKey(ctx context.Context, key string) (bool, error) {
	var count int64
	err := dao.DB.WithContext(ctx).Model(&models.Deployment{}).Where("key = ?", key).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create writes one deployment entry. The unique index on key turns a
// concurrent double-deploy into a Conflict instead of a silent overwrite.
func (dao *DeploymentDAO) Create(ctx context.Context, userID, slug, payload string) (*models.Deployment, error) {
	dep := &models.Deployment{
		UserID:  userID,
		Slug:    slug,
		Key:     StorageKey(userID, slug),
		Payload: payload,
	}
	err := dao.DB.WithContext(ctx).Create(dep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.Conflict, "API endpoint with this name already exists")
		}
		return nil, err
	}
	return dep, nil
}

// GetByKey returns the entry stored under key, or a NotFound error.
func (dao *DeploymentDAO) GetByKey(ctx context.Context, key string) (*models.Deployment, error) {
	var dep models.Deployment
	err := dao.DB.WithContext(ctx).Where("key = ?", key).First(&dep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "API endpoint not found")
		}
		return nil, err
	}
	return &dep, nil
}

// ListByUser returns every entry deployed by userID, newest first.
func (dao *DeploymentDAO) ListByUser(ctx context.Context, userID string) ([]models.Deployment, error) {
	var deps []models.Deployment
	err := dao.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&deps).Error
	if err != nil {
		return nil, err
	}
	return deps, nil
}
