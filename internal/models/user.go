package models

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type User struct {
	BaseModel
	Username        string        `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Email           string        `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash    string        `json:"-" gorm:"type:text;not null"`
	FirstName       string        `json:"firstName" gorm:"type:varchar(100)"`
	LastName        string        `json:"lastName" gorm:"type:varchar(100)"`
	Gender          Gender        `json:"gender" gorm:"type:varchar(10);not null;default:'other'"`
	DateOfBirth     *time.Time    `json:"dateOfBirth,omitempty"`
	Phone           *string       `json:"phone,omitempty" gorm:"type:varchar(30)"`
	Bio             *string       `json:"bio,omitempty" gorm:"type:text"`
	Photo           *string       `json:"photo,omitempty" gorm:"type:text"`
	BackgroundPhoto *string       `json:"backgroundPhoto,omitempty" gorm:"type:text"`
	Address         *Address      `json:"address,omitempty" gorm:"foreignKey:UserID"`
	Alcohols        []UserAlcohol `json:"-" gorm:"foreignKey:UserID"`
	Parties         []UserParty   `json:"-" gorm:"foreignKey:UserID"`
	CreatedParties  []Party       `json:"-" gorm:"foreignKey:CreatorID"`
}
