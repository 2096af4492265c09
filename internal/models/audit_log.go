package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for JSONMap")
	}
}

type AuditLog struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       *uuid.UUID `json:"userID,omitempty" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"type:varchar(100);not null;index"`
	ResourceType string     `json:"resourceType" gorm:"type:varchar(50)"`
	ResourceID   *uuid.UUID `json:"resourceID,omitempty" gorm:"type:uuid"`
	Details      JSONMap    `json:"details,omitempty" gorm:"type:text"`
	IPAddress    string     `json:"ipAddress" gorm:"type:varchar(45)"`
	RequestID    string     `json:"requestID" gorm:"type:varchar(100)"`
	CreatedAt    time.Time  `json:"createdAt" gorm:"index"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
