package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deployment is one key-value entry of durable state: the JSON-serialized
// DeploymentRecord stored under api/results/{userId}/{slug}. Created exactly
// once, never mutated, never deleted.
type Deployment struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(255);not null;index"`
	Slug      string    `json:"slug" gorm:"type:varchar(255);not null"`
	Key       string    `json:"key" gorm:"type:varchar(512);not null;uniqueIndex"`
	Payload   string    `json:"payload" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (d *Deployment) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
