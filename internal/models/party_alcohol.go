package models

import "github.com/google/uuid"

type PartyAlcohol struct {
	BaseModel
	PartyID   uuid.UUID `json:"partyID" gorm:"type:uuid;not null;index;uniqueIndex:idx_party_alcohol"`
	AlcoholID uuid.UUID `json:"alcoholID" gorm:"type:uuid;not null;index;uniqueIndex:idx_party_alcohol"`
	Volume    int       `json:"volume" gorm:"not null;default:0"`
	Rank      int       `json:"rank" gorm:"not null;default:0"`
	Party     Party     `json:"-" gorm:"foreignKey:PartyID"`
	Alcohol   Alcohol   `json:"alcohol,omitempty" gorm:"foreignKey:AlcoholID"`
}
