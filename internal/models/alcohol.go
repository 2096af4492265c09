package models

type AlcoholCategory string

const (
	CategoryLiquor      AlcoholCategory = "liquor"
	CategoryLowAlcohol  AlcoholCategory = "lowAlcohol"
	CategoryMidAlcohol  AlcoholCategory = "midAlcohol"
	CategoryHighAlcohol AlcoholCategory = "highAlcohol"
)

func (c AlcoholCategory) Valid() bool {
	switch c {
	case CategoryLiquor, CategoryLowAlcohol, CategoryMidAlcohol, CategoryHighAlcohol:
		return true
	}
	return false
}

// Alcohol is a read-mostly catalog item; user flows never mutate it.
type Alcohol struct {
	BaseModel
	Name     string          `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	Category AlcoholCategory `json:"category" gorm:"type:varchar(20);not null"`
}
