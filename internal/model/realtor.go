package model

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// Realtor is a real-estate agent's contact profile.
// Optional columns are pointers so that absent values serialize as JSON null.
type Realtor struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	FullName    string    `json:"full_name" gorm:"type:text;not null"`
	Email       string    `json:"email" gorm:"type:text;not null;index:idx_realtors_email"`
	Photo       *string   `json:"photo" gorm:"type:text"`
	Phone       string    `json:"phone" gorm:"type:text;not null"`
	IsMVP       *bool     `json:"is_mvp" gorm:"column:is_mvp"`
	Description *string   `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"-" gorm:"not null;index:idx_realtors_created_at"`
}

// TableName pins the table name independent of gorm's naming strategy.
func (Realtor) TableName() string {
	return "realtors"
}

// BeforeCreate assigns a URL-safe random id when the caller did not provide one.
func (r *Realtor) BeforeCreate(tx *gorm.DB) error {
	if r.ID != "" {
		return nil
	}
	id, err := NewID()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// NewID returns a 21-character nanoid.
func NewID() (string, error) {
	return gonanoid.New()
}
