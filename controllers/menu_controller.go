package controllers

import (
	"errors"
	"net/http"
	"time"

	"lunch-backend/config"
	"lunch-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	msgMenuAlreadyPublished = "¡Ya se publicó el menú de hoy, no puede crear otro!"
	msgMenuNotFound         = "El menú al que trató de acceder no existe!"
	msgMenuCreated          = "Menú añadido exitosamente!"
	msgMenuUpdated          = "Menú actualizado exitosamente!"
	msgMenuUpdateFailed     = "Ocurrió un error al tratar de actualizar menú!"
)

type MenuInput struct {
	Title       string   `json:"menu_title" binding:"required,max=50"`
	Items       []string `json:"items" binding:"required,min=1,dive,required,max=200"`
	NotifyMail  bool     `json:"notify_mail"`
	NotifySlack bool     `json:"notify_slack"`
}

// Home lists past menus (paginated) plus today's menu when one exists.
// Public: anonymous visitors see the same listing.
func Home(c *gin.Context) {
	svc := services.NewMenuService(config.DB)

	menus, page, numPages, err := svc.ListPastMenus(c.Query("page"), config.PageSize())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	today, err := svc.TodaysMenu()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"menus":     menus,
		"page":      page,
		"num_pages": numPages,
	}
	if today != nil {
		resp["today_menu"] = today
	}
	c.JSON(http.StatusOK, resp)
}

// MenuDetail shows a single menu and its items. For a logged-in client it also
// reports whether ordering is still open and any order they already placed.
func MenuDetail(c *gin.Context) {
	svc := services.NewMenuService(config.DB)

	menu, err := svc.GetMenu(c.Param("unique_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgMenuNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"menu":  menu,
		"items": menu.Items,
	}

	// extra context for authenticated clients only
	if userID, ok := c.Get("userID"); ok && !c.GetBool("isChef") {
		if services.InOrderingWindow(time.Now(), config.OrderCutoffHour()) {
			resp["in_order_time"] = true
		}
		orderSvc := services.NewOrderService(config.DB, config.OrderCutoffHour())
		order, err := orderSvc.OrderForUserAndMenu(userID.(uint), menu.ID)
		if err == nil && order != nil {
			resp["order"] = order
		}
	}

	c.JSON(http.StatusOK, resp)
}

// NewMenuEligibility is the GET half of the publish flow: it blocks entering
// the form when today's menu already exists, mirroring the POST-side check.
func NewMenuEligibility(c *gin.Context) {
	svc := services.NewMenuService(config.DB)

	today, err := svc.TodaysMenu()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if today != nil {
		c.JSON(http.StatusConflict, gin.H{"error": msgMenuAlreadyPublished})
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_create": true})
}

// CreateMenu publishes today's menu with its items and enqueues the opted-in
// notifications. The request returns as soon as the jobs are queued.
func CreateMenu(c *gin.Context) {
	var input MenuInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewMenuService(config.DB)
	menu, err := svc.CreateMenu(input.Title, input.Items)
	if err != nil {
		if errors.Is(err, services.ErrMenuAlreadyPublished) {
			c.JSON(http.StatusConflict, gin.H{"error": msgMenuAlreadyPublished})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	job := services.MenuPublishedJob{
		MenuID:      menu.ID,
		Title:       menu.Title,
		Link:        "https://" + config.SiteDomain() + "/menu/" + menu.ID,
		NotifyMail:  input.NotifyMail,
		NotifySlack: input.NotifySlack,
	}
	if input.NotifyMail {
		userSvc := services.NewUserService(config.DB)
		if emails, err := userSvc.AllEmails(); err == nil {
			job.Recipients = emails
		}
	}
	services.NotifyMenuPublished(job)

	c.JSON(http.StatusCreated, gin.H{
		"message": msgMenuCreated,
		"menu":    menu,
	})
}

// EditMenuForm returns the current state of a menu for the edit form.
func EditMenuForm(c *gin.Context) {
	svc := services.NewMenuService(config.DB)

	menu, err := svc.GetMenu(c.Param("unique_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgMenuNotFound})
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

// UpdateMenu renames the menu and reconciles its items against the submitted
// list. Dropping items deletes the orders placed against them, so the UI must
// warn the chef about that. Anything unexpected during the update collapses to
// a generic 500.
func UpdateMenu(c *gin.Context) {
	var input MenuInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewMenuService(config.DB)
	menu, err := svc.UpdateMenu(c.Param("unique_id"), input.Title, input.Items)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgMenuNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgMenuUpdateFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": msgMenuUpdated,
		"menu":    menu,
	})
}
