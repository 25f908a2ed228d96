package models

import (
    "time"
)

// The daily menu. At most one menu may be created per local calendar day; that
// rule lives in the menu service, not in the schema.
type Menu struct {
    ID        string `gorm:"type:uuid;primaryKey"`
    Title     string `gorm:"size:50;not null"`
    CreatedAt time.Time
    UpdatedAt time.Time
    Items     []MenuItem `gorm:"constraint:OnDelete:CASCADE"`
}

// PublishedToday reports whether the menu was created on the current local date.
func (m *Menu) PublishedToday() bool {
    now := time.Now().Local()
    created := m.CreatedAt.Local()
    return created.Year() == now.Year() && created.YearDay() == now.YearDay()
}

// MenuItem is one lunch option on a menu plus how many times it has been
// ordered. Items die with their menu.
type MenuItem struct {
    ID        uint   `gorm:"primaryKey"`
    MenuID    string `gorm:"type:uuid;index;not null"`
    ItemText  string `gorm:"size:200;not null"`
    Count     int    `gorm:"default:0"` // number of orders placed for this item
    CreatedAt time.Time
    UpdatedAt time.Time
}
