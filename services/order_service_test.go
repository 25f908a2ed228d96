package services

import (
	"errors"
	"testing"
	"time"

	"lunch-backend/models"

	"gorm.io/gorm"
)

const openCutoff = 24 // window open all day, regardless of wall-clock hour

func createClient(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "x", Email: username + "@example.com", Active: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestInOrderingWindow(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2026, 3, 2, hour, 30, 0, 0, time.Local)
	}
	tests := []struct {
		hour   int
		cutoff int
		want   bool
	}{
		{10, 11, true},
		{11, 11, false}, // cutoff hour itself is already closed
		{12, 11, false},
		{0, 11, true},
		{10, 0, false},
		{23, 24, true},
	}
	for _, tt := range tests {
		if got := InOrderingWindow(at(tt.hour), tt.cutoff); got != tt.want {
			t.Errorf("InOrderingWindow(hour=%d, cutoff=%d) = %v, want %v", tt.hour, tt.cutoff, got, tt.want)
		}
	}
}

func TestPlaceOrderIncrementsCountAndLinksUser(t *testing.T) {
	db := newTestDB(t)
	menu, err := NewMenuService(db).CreateMenu("Lunch", []string{"Soup", "Salad"})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	user := createClient(t, db, "diner")
	svc := NewOrderService(db, openCutoff)

	soup := menu.Items[0]
	order, err := svc.PlaceOrder(user.ID, menu, soup.ID, "sin sal", models.SizeLarge)
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	if order.UserID == nil || *order.UserID != user.ID {
		t.Errorf("order user = %v, want %d", order.UserID, user.ID)
	}
	if order.Size != models.SizeLarge {
		t.Errorf("order size = %d, want SizeLarge", order.Size)
	}
	if order.Comments != "sin sal" {
		t.Errorf("order comments = %q", order.Comments)
	}

	var stored models.MenuItem
	if err := db.First(&stored, soup.ID).Error; err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if stored.Count != 1 {
		t.Errorf("item count = %d, want 1", stored.Count)
	}

	var salad models.MenuItem
	db.First(&salad, menu.Items[1].ID)
	if salad.Count != 0 {
		t.Errorf("untouched item count = %d, want 0", salad.Count)
	}
}

func TestPlaceOrderRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	menu, _ := NewMenuService(db).CreateMenu("Lunch", []string{"Soup", "Salad"})
	user := createClient(t, db, "diner")
	svc := NewOrderService(db, openCutoff)

	if _, err := svc.PlaceOrder(user.ID, menu, menu.Items[0].ID, "", models.SizeNormal); err != nil {
		t.Fatalf("first order failed: %v", err)
	}
	// even against a different item of the same menu
	_, err := svc.PlaceOrder(user.ID, menu, menu.Items[1].ID, "", models.SizeNormal)
	if !errors.Is(err, ErrOrderAlreadyExists) {
		t.Fatalf("second order = %v, want ErrOrderAlreadyExists", err)
	}

	var total int64
	db.Model(&models.Order{}).Count(&total)
	if total != 1 {
		t.Errorf("orders stored = %d, want 1", total)
	}
}

func TestDuplicateCheckPrecedesWindowCheck(t *testing.T) {
	db := newTestDB(t)
	menu, _ := NewMenuService(db).CreateMenu("Lunch", []string{"Soup"})
	user := createClient(t, db, "diner")

	if _, err := NewOrderService(db, openCutoff).PlaceOrder(user.ID, menu, menu.Items[0].ID, "", models.SizeNormal); err != nil {
		t.Fatalf("first order failed: %v", err)
	}

	// window now closed, but the duplicate error must win
	err := NewOrderService(db, 0).CheckEligibility(user.ID, menu)
	if !errors.Is(err, ErrOrderAlreadyExists) {
		t.Fatalf("eligibility = %v, want ErrOrderAlreadyExists", err)
	}
}

func TestDuplicateCheckPrecedesSizeValidation(t *testing.T) {
	db := newTestDB(t)
	menu, _ := NewMenuService(db).CreateMenu("Lunch", []string{"Soup"})
	user := createClient(t, db, "diner")
	svc := NewOrderService(db, openCutoff)

	if _, err := svc.PlaceOrder(user.ID, menu, menu.Items[0].ID, "", models.SizeNormal); err != nil {
		t.Fatalf("first order failed: %v", err)
	}

	// a duplicate submission with a bad size still reports the duplicate
	_, err := svc.PlaceOrder(user.ID, menu, menu.Items[0].ID, "", 7)
	if !errors.Is(err, ErrOrderAlreadyExists) {
		t.Fatalf("duplicate with bad size = %v, want ErrOrderAlreadyExists", err)
	}
}

func TestPlaceOrderRejectsAfterCutoff(t *testing.T) {
	db := newTestDB(t)
	menu, _ := NewMenuService(db).CreateMenu("Lunch", []string{"Soup"})
	user := createClient(t, db, "diner")
	svc := NewOrderService(db, 0)

	_, err := svc.PlaceOrder(user.ID, menu, menu.Items[0].ID, "", models.SizeNormal)
	if !errors.Is(err, ErrOrderingClosed) {
		t.Fatalf("order after cutoff = %v, want ErrOrderingClosed", err)
	}
}

func TestPlaceOrderRejectsStaleMenu(t *testing.T) {
	db := newTestDB(t)
	menu := createYesterdaysMenu(t, db, "Ayer", "Sopa")
	var item models.MenuItem
	db.First(&item, "menu_id = ?", menu.ID)
	user := createClient(t, db, "diner")

	// window wide open, but the menu is from yesterday
	_, err := NewOrderService(db, openCutoff).PlaceOrder(user.ID, menu, item.ID, "", models.SizeNormal)
	if !errors.Is(err, ErrOrderingClosed) {
		t.Fatalf("order on stale menu = %v, want ErrOrderingClosed", err)
	}
}

func TestPlaceOrderRejectsItemFromAnotherMenu(t *testing.T) {
	db := newTestDB(t)
	other := createYesterdaysMenu(t, db, "Ayer", "Sopa vieja")
	var foreignItem models.MenuItem
	db.First(&foreignItem, "menu_id = ?", other.ID)

	menu, _ := NewMenuService(db).CreateMenu("Hoy", []string{"Soup"})
	user := createClient(t, db, "diner")

	_, err := NewOrderService(db, openCutoff).PlaceOrder(user.ID, menu, foreignItem.ID, "", models.SizeNormal)
	if !errors.Is(err, ErrItemNotInMenu) {
		t.Fatalf("order with foreign item = %v, want ErrItemNotInMenu", err)
	}
}

func TestPlaceOrderRejectsUnknownSize(t *testing.T) {
	db := newTestDB(t)
	menu, _ := NewMenuService(db).CreateMenu("Lunch", []string{"Soup"})
	user := createClient(t, db, "diner")

	_, err := NewOrderService(db, openCutoff).PlaceOrder(user.ID, menu, menu.Items[0].ID, "", 5)
	if !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("order with size 5 = %v, want ErrInvalidSize", err)
	}
}

func TestOrdersForMenuPagination(t *testing.T) {
	db := newTestDB(t)
	menu, _ := NewMenuService(db).CreateMenu("Lunch", []string{"Soup"})
	svc := NewOrderService(db, openCutoff)

	for i := 0; i < 3; i++ {
		user := createClient(t, db, "diner"+string(rune('a'+i)))
		if _, err := svc.PlaceOrder(user.ID, menu, menu.Items[0].ID, "", models.SizeNormal); err != nil {
			t.Fatalf("order %d failed: %v", i, err)
		}
	}

	orders, page, numPages, err := svc.OrdersForMenu(menu.ID, "2", 2)
	if err != nil {
		t.Fatalf("OrdersForMenu failed: %v", err)
	}
	if page != 2 || numPages != 2 || len(orders) != 1 {
		t.Errorf("page=%d numPages=%d len=%d, want 2/2/1", page, numPages, len(orders))
	}

	// out-of-range page falls back to the last one
	orders, page, _, err = svc.OrdersForMenu(menu.ID, "99", 2)
	if err != nil {
		t.Fatalf("OrdersForMenu failed: %v", err)
	}
	if page != 2 || len(orders) != 1 {
		t.Errorf("page=%d len=%d, want 2/1", page, len(orders))
	}
}

func TestOrderForUserAndMenu(t *testing.T) {
	db := newTestDB(t)
	menu, _ := NewMenuService(db).CreateMenu("Lunch", []string{"Soup"})
	user := createClient(t, db, "diner")
	svc := NewOrderService(db, openCutoff)

	got, err := svc.OrderForUserAndMenu(user.ID, menu.ID)
	if err != nil || got != nil {
		t.Fatalf("before ordering got (%v, %v), want (nil, nil)", got, err)
	}

	placed, err := svc.PlaceOrder(user.ID, menu, menu.Items[0].ID, "", models.SizeNormal)
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	got, err = svc.OrderForUserAndMenu(user.ID, menu.ID)
	if err != nil {
		t.Fatalf("OrderForUserAndMenu failed: %v", err)
	}
	if got == nil || got.ID != placed.ID {
		t.Errorf("got %+v, want order %s", got, placed.ID)
	}
}
