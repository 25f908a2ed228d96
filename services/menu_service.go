package services

import (
	"errors"
	"time"

	"lunch-backend/models"
	"lunch-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrMenuAlreadyPublished signals that a menu was already created today.
var ErrMenuAlreadyPublished = errors.New("a menu was already published today")

type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

func dayStartLocal(t time.Time) time.Time {
	loc := time.Local
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}

// TodaysMenu returns the menu created on the current local date, or nil if
// none has been published yet.
func (s *MenuService) TodaysMenu() (*models.Menu, error) {
	start := dayStartLocal(time.Now())
	end := start.AddDate(0, 0, 1)

	var menu models.Menu
	err := s.db.Preload("Items").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		First(&menu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// CreateMenu publishes a new menu with its items, enforcing the one-menu-per-day
// rule. The check is read-then-act: two chefs racing past it can both publish.
func (s *MenuService) CreateMenu(title string, items []string) (*models.Menu, error) {
	existing, err := s.TodaysMenu()
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMenuAlreadyPublished
	}

	menu := &models.Menu{ID: uuid.NewString(), Title: title}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(menu).Error; err != nil {
			return err
		}
		for _, text := range items {
			item := &models.MenuItem{MenuID: menu.ID, ItemText: text, Count: 0}
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetMenu(menu.ID)
}

// GetMenu loads a menu with its items. Returns gorm.ErrRecordNotFound for an
// unknown id.
func (s *MenuService) GetMenu(id string) (*models.Menu, error) {
	var menu models.Menu
	err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("menu_items.id ASC")
	}).First(&menu, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// ListPastMenus pages through menus created before today, newest first.
func (s *MenuService) ListPastMenus(pageParam string, pageSize int) ([]models.Menu, int, int, error) {
	start := dayStartLocal(time.Now())

	var total int64
	if err := s.db.Model(&models.Menu{}).Where("created_at < ?", start).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	page, numPages, offset := utils.Paginate(pageParam, pageSize, total)

	var menus []models.Menu
	err := s.db.Where("created_at < ?", start).
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&menus).Error
	if err != nil {
		return nil, 0, 0, err
	}
	return menus, page, numPages, nil
}

type ItemUpdate struct {
	ID   uint
	Text string
}

// ItemChanges is the result of diffing a menu's stored items against a
// submitted list of item texts.
type ItemChanges struct {
	Updates   []ItemUpdate
	Inserts   []string
	DeleteIDs []uint
}

// ReconcileItems computes a positional three-way diff between the existing
// items (in storage order) and the submitted texts: positions present on both
// sides become updates, extra submitted texts become inserts, surplus existing
// rows become deletes. Matching is purely positional: reordering the submitted
// list silently reassigns order counts to different texts. That is the
// documented behavior, not an accident to fix here.
func ReconcileItems(existing []models.MenuItem, submitted []string) ItemChanges {
	var changes ItemChanges
	for i, text := range submitted {
		if i < len(existing) {
			changes.Updates = append(changes.Updates, ItemUpdate{ID: existing[i].ID, Text: text})
		} else {
			changes.Inserts = append(changes.Inserts, text)
		}
	}
	for i := len(submitted); i < len(existing); i++ {
		changes.DeleteIDs = append(changes.DeleteIDs, existing[i].ID)
	}
	return changes
}

// UpdateMenu renames a menu and reconciles its item list against the submitted
// texts. Deleting surplus items also deletes the orders placed against them.
func (s *MenuService) UpdateMenu(id string, title string, submitted []string) (*models.Menu, error) {
	var menu models.Menu
	if err := s.db.First(&menu, "id = ?", id).Error; err != nil {
		return nil, err
	}

	var existing []models.MenuItem
	if err := s.db.Where("menu_id = ?", menu.ID).Order("id ASC").Find(&existing).Error; err != nil {
		return nil, err
	}

	changes := ReconcileItems(existing, submitted)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		menu.Title = title
		if err := tx.Save(&menu).Error; err != nil {
			return err
		}
		for _, u := range changes.Updates {
			// count stays untouched on an in-place text edit
			if err := tx.Model(&models.MenuItem{}).Where("id = ?", u.ID).
				Update("item_text", u.Text).Error; err != nil {
				return err
			}
		}
		for _, text := range changes.Inserts {
			item := &models.MenuItem{MenuID: menu.ID, ItemText: text, Count: 0}
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}
		if len(changes.DeleteIDs) > 0 {
			// orders cascade away with their item
			if err := tx.Where("item_choice_id IN ?", changes.DeleteIDs).
				Delete(&models.Order{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", changes.DeleteIDs).
				Delete(&models.MenuItem{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetMenu(menu.ID)
}
