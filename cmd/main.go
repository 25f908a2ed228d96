package main

import (
    "log"

    "lunch-backend/config"
    "lunch-backend/controllers"
    "lunch-backend/routes"
    "lunch-backend/services"
    "lunch-backend/utils"
)

func main() {
    config.InitDB()

    hub := services.NewRealtimeHub()

    mailer, err := utils.NewMailer()
    if err != nil {
        log.Printf("mailer disabled: %v", err)
        mailer = nil
    }

    push, err := services.NewPushService(config.DB)
    if err != nil {
        log.Printf("push service disabled: %v", err)
        push = nil
    }

    notifier := services.NewNotifier(mailer, utils.NewSlackClient(), push, hub)
    notifier.Start()
    services.InitNotifier(notifier)

    rc := controllers.NewRealtimeController(hub)
    var dc *controllers.DeviceController
    if push != nil {
        dc = controllers.NewDeviceController(push)
    }

    r := routes.SetupRouter(rc, dc)
    r.Run(":8080")
}
