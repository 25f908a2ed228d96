package services

import (
	"errors"
	"time"

	"lunch-backend/models"
	"lunch-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrOrderAlreadyExists signals the requesting user already ordered from
	// this menu.
	ErrOrderAlreadyExists = errors.New("user already has an order for this menu")
	// ErrOrderingClosed signals the menu is not orderable: it was not published
	// today, or the cutoff hour has passed.
	ErrOrderingClosed = errors.New("ordering window for this menu is closed")
	// ErrItemNotInMenu signals the chosen item belongs to a different menu.
	ErrItemNotInMenu = errors.New("item choice does not belong to the menu")
	// ErrInvalidSize signals an unknown meal size.
	ErrInvalidSize = errors.New("invalid order size")
)

// InOrderingWindow reports whether the local time is still before the cutoff
// hour. The cutoff is a business-time boundary, process-wide for all menus.
func InOrderingWindow(now time.Time, cutoffHour int) bool {
	return now.Local().Hour() < cutoffHour
}

type OrderService struct {
	db         *gorm.DB
	cutoffHour int
}

func NewOrderService(db *gorm.DB, cutoffHour int) *OrderService {
	return &OrderService{db: db, cutoffHour: cutoffHour}
}

// HasOrderForMenu reports whether the user already has any order whose item
// belongs to the given menu.
func (s *OrderService) HasOrderForMenu(userID uint, menuID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Order{}).
		Joins("JOIN menu_items ON menu_items.id = orders.item_choice_id").
		Where("orders.user_id = ? AND menu_items.menu_id = ?", userID, menuID).
		Count(&count).Error
	return count > 0, err
}

// CheckEligibility runs the pre-order checks in their fixed sequence: the
// duplicate-order check comes before the time-window check, so a client who
// already ordered gets the duplicate error even after the cutoff. Like the
// publish check this is read-then-act and can race with itself.
func (s *OrderService) CheckEligibility(userID uint, menu *models.Menu) error {
	dup, err := s.HasOrderForMenu(userID, menu.ID)
	if err != nil {
		return err
	}
	if dup {
		return ErrOrderAlreadyExists
	}
	if !menu.PublishedToday() || !InOrderingWindow(time.Now(), s.cutoffHour) {
		return ErrOrderingClosed
	}
	return nil
}

// PlaceOrder validates eligibility, then the submitted fields, and persists
// the order plus the item count bump in one transaction. Eligibility comes
// first so a duplicate order reports the duplicate error regardless of what
// else is wrong with the submission.
func (s *OrderService) PlaceOrder(userID uint, menu *models.Menu, itemID uint, comments string, size int) (*models.Order, error) {
	if err := s.CheckEligibility(userID, menu); err != nil {
		return nil, err
	}
	if size != models.SizeNormal && size != models.SizeLarge {
		return nil, ErrInvalidSize
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.Where("id = ? AND menu_id = ?", itemID, menu.ID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotInMenu
			}
			return err
		}

		order = &models.Order{
			ID:           uuid.NewString(),
			ItemChoiceID: item.ID,
			Comments:     comments,
			Size:         size,
			UserID:       &userID,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Model(&models.MenuItem{}).Where("id = ?", item.ID).
			UpdateColumn("count", gorm.Expr("count + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// OrderForUserAndMenu returns the user's order against the menu, or nil when
// there is none.
func (s *OrderService) OrderForUserAndMenu(userID uint, menuID string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("ItemChoice").
		Joins("JOIN menu_items ON menu_items.id = orders.item_choice_id").
		Where("orders.user_id = ? AND menu_items.menu_id = ?", userID, menuID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// OrdersForMenu pages through every order placed against a menu, newest first.
func (s *OrderService) OrdersForMenu(menuID string, pageParam string, pageSize int) ([]models.Order, int, int, error) {
	base := s.db.Model(&models.Order{}).
		Joins("JOIN menu_items ON menu_items.id = orders.item_choice_id").
		Where("menu_items.menu_id = ?", menuID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	page, numPages, offset := utils.Paginate(pageParam, pageSize, total)

	var orders []models.Order
	err := s.db.Preload("ItemChoice").Preload("User").
		Joins("JOIN menu_items ON menu_items.id = orders.item_choice_id").
		Where("menu_items.menu_id = ?", menuID).
		Order("orders.created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, 0, err
	}
	return orders, page, numPages, nil
}

// OrdersForUser pages through a user's order history, newest first.
func (s *OrderService) OrdersForUser(userID uint, pageParam string, pageSize int) ([]models.Order, int, int, error) {
	var total int64
	if err := s.db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	page, numPages, offset := utils.Paginate(pageParam, pageSize, total)

	var orders []models.Order
	err := s.db.Preload("ItemChoice").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, 0, err
	}
	return orders, page, numPages, nil
}
