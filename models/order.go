package models

import (
    "time"
)

// Meal sizes for an order.
const (
    SizeNormal = 0
    SizeLarge  = 1
)

// Order is a client's pick from a menu. Orders are created once and never
// edited; they cascade away with the menu item they reference. The user FK is
// nullable so order rows survive account deletion.
type Order struct {
    ID           string `gorm:"type:uuid;primaryKey"`
    CreatedAt    time.Time
    ItemChoiceID uint     `gorm:"index;not null"`
    ItemChoice   MenuItem `gorm:"foreignKey:ItemChoiceID;constraint:OnDelete:CASCADE"`
    Comments     string   `gorm:"size:200"`
    Size         int      `gorm:"default:0"` // SizeNormal | SizeLarge
    UserID       *uint    `gorm:"index"`
    User         *User
}

// SizeLabel returns the human name for the order's size.
func (o *Order) SizeLabel() string {
    if o.Size == SizeLarge {
        return "Large"
    }
    return "Normal"
}
