package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// Submission is a local record of an order accepted by the backend.
// The backend owns the order itself; this log only lets the dashboard show
// what was submitted from this machine, and by whom.
type Submission struct {
	BaseModel
	RemoteID  string  `json:"remote_id" gorm:"index"` // Backend order id, empty if the backend returned none
	UserID    string  `json:"user_id" gorm:"not null;index"`
	UserEmail string  `json:"user_email" gorm:"not null"`
	Customer  string  `json:"customer" gorm:"not null"`
	Category  string  `json:"category" gorm:"not null"` // Category id as sent to the backend
	Date      string  `json:"date" gorm:"type:varchar(10);not null"`
	Source    string  `json:"source" gorm:"not null"`
	Geo       string  `json:"geo" gorm:"not null"`
	Amount    float64 `json:"amount" gorm:"not null"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Submission{})
}
