package routes

import (
    "lunch-backend/controllers"
    "lunch-backend/middlewares"

    "github.com/gin-gonic/gin"
)

// SetupRouter wires the HTTP surface. The realtime and device controllers are
// optional; passing nil leaves their endpoints unregistered (tests do this).
func SetupRouter(rc *controllers.RealtimeController, dc *controllers.DeviceController) *gin.Engine {
    r := gin.Default()

    // Public routes
    r.GET("/", controllers.Home)
    r.POST("/signup", controllers.Signup)
    r.POST("/login", controllers.Login)
    r.GET("/menu/:unique_id", middlewares.OptionalAuth(), controllers.MenuDetail)

    // Any authenticated user
    authed := r.Group("/")
    authed.Use(middlewares.AuthMiddleware())
    {
        authed.POST("/logout", controllers.Logout)
        authed.GET("/view_orders/:user_id", controllers.UserOrders)
        if dc != nil {
            authed.POST("/devices", dc.Register)
        }
        if rc != nil {
            authed.GET("/ws", rc.MenuFeedWS)
        }
    }

    // Chef-only routes
    chef := r.Group("/")
    chef.Use(middlewares.AuthMiddleware(), middlewares.ChefRequired())
    {
        chef.GET("/new_menu", controllers.NewMenuEligibility)
        chef.POST("/new_menu", controllers.CreateMenu)
        chef.GET("/edit_menu/:unique_id", controllers.EditMenuForm)
        chef.POST("/edit_menu/:unique_id", controllers.UpdateMenu)
        chef.GET("/menu_orders/:unique_id", controllers.MenuOrders)
    }

    // Client-only routes
    client := r.Group("/")
    client.Use(middlewares.AuthMiddleware(), middlewares.ClientRequired())
    {
        client.GET("/new_order/:unique_id", controllers.NewOrderForm)
        client.POST("/new_order/:unique_id", controllers.CreateOrder)
    }

    return r
}
