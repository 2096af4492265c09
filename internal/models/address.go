package models

import "github.com/google/uuid"

type Address struct {
	BaseModel
	UserID     uuid.UUID `json:"-" gorm:"type:uuid;not null;uniqueIndex"`
	Street     string    `json:"street" gorm:"type:varchar(255)"`
	City       string    `json:"city" gorm:"type:varchar(100)"`
	PostalCode string    `json:"postalCode" gorm:"type:varchar(20)"`
	Country    string    `json:"country" gorm:"type:varchar(100)"`
}
