package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"lunch-backend/config"
	"lunch-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	msgOrderAlreadyExists = "Usted ya tiene una orden para este menú!"
	msgOrderingClosed     = "Ya pasó el tiempo para ordernar de este menú"
	msgOrderCreated       = "Orden añadida exitosamente!"
	msgOrdersForbidden    = "Usted no esta autorizado para entrar a esta página!"
)

type OrderInput struct {
	ItemChoice uint   `json:"item_choice" binding:"required"`
	Comments   string `json:"comments" binding:"max=200"`
	Size       int    `json:"size"`
}

func orderConflictResponse(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, services.ErrOrderAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": msgOrderAlreadyExists})
	case errors.Is(err, services.ErrOrderingClosed):
		c.JSON(http.StatusConflict, gin.H{"error": msgOrderingClosed})
	default:
		return false
	}
	return true
}

// NewOrderForm is the GET half of the order flow: it re-runs the eligibility
// checks so a client cannot even enter the form once they are ruled out, and
// returns the items to choose from.
func NewOrderForm(c *gin.Context) {
	menuSvc := services.NewMenuService(config.DB)
	menu, err := menuSvc.GetMenu(c.Param("unique_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgMenuNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	orderSvc := services.NewOrderService(config.DB, config.OrderCutoffHour())
	if err := orderSvc.CheckEligibility(c.GetUint("userID"), menu); err != nil {
		if orderConflictResponse(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"menu":  menu,
		"items": menu.Items,
	})
}

// CreateOrder places the client's single order against a menu: eligibility
// checks, item-belongs-to-menu validation, then order row + count increment.
func CreateOrder(c *gin.Context) {
	var input OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	menuSvc := services.NewMenuService(config.DB)
	menu, err := menuSvc.GetMenu(c.Param("unique_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgMenuNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	orderSvc := services.NewOrderService(config.DB, config.OrderCutoffHour())
	order, err := orderSvc.PlaceOrder(c.GetUint("userID"), menu, input.ItemChoice, input.Comments, input.Size)
	if err != nil {
		if orderConflictResponse(c, err) {
			return
		}
		if errors.Is(err, services.ErrItemNotInMenu) || errors.Is(err, services.ErrInvalidSize) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": msgOrderCreated,
		"order":   order,
	})
}

// MenuOrders lists every order placed against a menu, paginated. Chef only.
func MenuOrders(c *gin.Context) {
	menuSvc := services.NewMenuService(config.DB)
	menu, err := menuSvc.GetMenu(c.Param("unique_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgMenuNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	orderSvc := services.NewOrderService(config.DB, config.OrderCutoffHour())
	orders, page, numPages, err := orderSvc.OrdersForMenu(menu.ID, c.Query("page"), config.PageSize())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"menu":      menu,
		"items":     menu.Items,
		"orders":    orders,
		"page":      page,
		"num_pages": numPages,
	})
}

// UserOrders lists a user's order history, paginated. Only the owner or a chef
// may look.
func UserOrders(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	userSvc := services.NewUserService(config.DB)
	target, err := userSvc.GetUser(uint(targetID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if !c.GetBool("isChef") && c.GetUint("userID") != target.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": msgOrdersForbidden})
		return
	}

	orderSvc := services.NewOrderService(config.DB, config.OrderCutoffHour())
	orders, page, numPages, err := orderSvc.OrdersForUser(target.ID, c.Query("page"), config.PageSize())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       target.ID,
			"username": target.Username,
		},
		"orders":    orders,
		"page":      page,
		"num_pages": numPages,
	})
}
