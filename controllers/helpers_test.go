package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lunch-backend/config"
	"lunch-backend/middlewares"
	"lunch-backend/models"
	"lunch-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTest gives each test a fresh in-memory DB wired into config.DB and a
// wide-open ordering window unless the test overrides it.
func setupTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "testsecret")
	t.Setenv("ORDER_HOUR_LIMIT", "24")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Menu{}, &models.MenuItem{}, &models.Order{}, &models.UserDevice{})
	if err != nil {
		t.Fatalf("automigrate failed: %v", err)
	}
	config.DB = db
}

// setupRouter mirrors routes.SetupRouter without the optional realtime/device
// endpoints (importing the routes package here would be an import cycle).
func setupRouter() *gin.Engine {
	r := gin.New()

	r.GET("/", Home)
	r.POST("/signup", Signup)
	r.POST("/login", Login)
	r.GET("/menu/:unique_id", middlewares.OptionalAuth(), MenuDetail)

	authed := r.Group("/", middlewares.AuthMiddleware())
	authed.POST("/logout", Logout)
	authed.GET("/view_orders/:user_id", UserOrders)

	chef := r.Group("/", middlewares.AuthMiddleware(), middlewares.ChefRequired())
	chef.GET("/new_menu", NewMenuEligibility)
	chef.POST("/new_menu", CreateMenu)
	chef.GET("/edit_menu/:unique_id", EditMenuForm)
	chef.POST("/edit_menu/:unique_id", UpdateMenu)
	chef.GET("/menu_orders/:unique_id", MenuOrders)

	client := r.Group("/", middlewares.AuthMiddleware(), middlewares.ClientRequired())
	client.GET("/new_order/:unique_id", NewOrderForm)
	client.POST("/new_order/:unique_id", CreateOrder)

	return r
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf := &bytes.Buffer{}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		buf = bytes.NewBuffer(b)
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return m
}

func createUserToken(t *testing.T, username string, isChef bool) string {
	t.Helper()
	hash, err := utils.HashPassword("testpass123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username: username,
		Password: hash,
		Email:    username + "@example.com",
		IsChef:   isChef,
		Active:   true,
	}
	if err := config.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, err := utils.GenerateJWT(user.ID, user.Username)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func userByUsername(t *testing.T, username string) *models.User {
	t.Helper()
	var user models.User
	if err := config.DB.First(&user, "username = ?", username).Error; err != nil {
		t.Fatalf("failed to load user %s: %v", username, err)
	}
	return &user
}
