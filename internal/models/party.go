package models

import (
	"time"

	"github.com/google/uuid"
)

type PartyStatus string

// Status carries no transition rules beyond create/update marking.
const (
	PartyStatusCreated PartyStatus = "created"
	PartyStatusUpdated PartyStatus = "updated"
)

type Party struct {
	BaseModel
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Description *string        `json:"description,omitempty" gorm:"type:text"`
	Photo       *string        `json:"photo,omitempty" gorm:"type:text"`
	Date        time.Time      `json:"date" gorm:"not null"`
	Location    *string        `json:"location,omitempty" gorm:"type:varchar(255)"`
	Liquors     bool           `json:"liquors" gorm:"not null;default:false"`
	LowAlcohol  bool           `json:"lowAlcohol" gorm:"not null;default:false"`
	MidAlcohol  bool           `json:"midAlcohol" gorm:"not null;default:false"`
	HighAlcohol bool           `json:"highAlcohol" gorm:"not null;default:false"`
	RankLimit   int            `json:"rankLimit" gorm:"not null;default:0"`
	Status      PartyStatus    `json:"status" gorm:"type:varchar(20);not null;default:'created'"`
	CreatorID   uuid.UUID      `json:"creatorID" gorm:"type:uuid;not null;index"`
	Creator     User           `json:"-" gorm:"foreignKey:CreatorID"`
	Members     []UserParty    `json:"-" gorm:"foreignKey:PartyID"`
	Alcohols    []PartyAlcohol `json:"-" gorm:"foreignKey:PartyID"`
}
