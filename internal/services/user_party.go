package services

import (
	"errors"

	"github.com/alcostack/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserPartyService manages party membership rows.
type UserPartyService struct {
	DB *gorm.DB
}

func NewUserPartyService(db *gorm.DB) *UserPartyService {
	return &UserPartyService{DB: db}
}

func (s *UserPartyService) findParty(partyID uuid.UUID) (*models.Party, error) {
	var party models.Party
	if err := s.DB.First(&party, "id = ?", partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, err
	}
	return &party, nil
}

// UsersByParty returns the party's members. A party with no members yields
// an empty slice; only a missing party is an error.
func (s *UserPartyService) UsersByParty(partyID uuid.UUID) ([]models.User, error) {
	if _, err := s.findParty(partyID); err != nil {
		return nil, err
	}

	var memberships []models.UserParty
	if err := s.DB.Preload("User").Where("party_id = ?", partyID).Find(&memberships).Error; err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(memberships))
	for _, m := range memberships {
		users = append(users, m.User)
	}
	return users, nil
}

func (s *UserPartyService) Join(user *models.User, partyID uuid.UUID) (*models.UserParty, error) {
	if _, err := s.findParty(partyID); err != nil {
		return nil, err
	}

	var existing models.UserParty
	err := s.DB.First(&existing, "user_id = ? AND party_id = ?", user.ID, partyID).Error
	if err == nil {
		return nil, ErrMembershipExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := models.UserParty{UserID: user.ID, PartyID: partyID}
	if err := s.DB.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Leave removes the caller's membership. The creator stays enrolled for the
// party's lifetime and is refused here.
func (s *UserPartyService) Leave(user *models.User, partyID uuid.UUID) (*models.UserParty, error) {
	party, err := s.findParty(partyID)
	if err != nil {
		return nil, err
	}

	if party.CreatorID == user.ID {
		return nil, ErrCreatorCannotLeave
	}

	var row models.UserParty
	if err := s.DB.First(&row, "user_id = ? AND party_id = ?", user.ID, partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}

	if err := s.DB.Delete(&models.UserParty{}, "user_id = ? AND party_id = ?", user.ID, partyID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
