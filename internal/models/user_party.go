package models

import "github.com/google/uuid"

type UserParty struct {
	BaseModel
	UserID  uuid.UUID `json:"userID" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_party"`
	PartyID uuid.UUID `json:"partyID" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_party"`
	User    User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Party   Party     `json:"-" gorm:"foreignKey:PartyID"`
}
