package services

import (
	"errors"

	"lunch-backend/models"
	"lunch-backend/utils"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// RegisterClient creates a self-signup account. Accounts created here are
// never chefs; chef users are provisioned out-of-band.
func (s *UserService) RegisterClient(username, password, email, firstName, lastName string) (*models.User, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  username,
		Password:  hashed,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		IsChef:    false,
		Active:    true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials for an active user.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	result := s.db.Where("username = ? AND active = ?", username, true).First(&user)
	if result.Error != nil {
		return nil, errors.New("user not found or disabled")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, errors.New("incorrect password")
	}
	return &user, nil
}

// GetUser loads a user by primary key. Returns gorm.ErrRecordNotFound for an
// unknown id.
func (s *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AllEmails returns the addresses of every active user, for notification
// fan-out on menu publish.
func (s *UserService) AllEmails() ([]string, error) {
	var emails []string
	err := s.db.Model(&models.User{}).
		Where("active = ? AND email <> ''", true).
		Pluck("email", &emails).Error
	return emails, err
}
