package models

import "github.com/google/uuid"

type UserAlcohol struct {
	BaseModel
	UserID    uuid.UUID `json:"userID" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_alcohol"`
	AlcoholID uuid.UUID `json:"alcoholID" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_alcohol"`
	Volume    int       `json:"volume" gorm:"not null;default:0"`
	Rating    int       `json:"rating" gorm:"not null;default:0"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Alcohol   Alcohol   `json:"alcohol,omitempty" gorm:"foreignKey:AlcoholID"`
}
