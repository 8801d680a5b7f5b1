package main

import (
	"context"
	"log"
	"os"

	"community_exchange/app"
	"community_exchange/config"
	"community_exchange/db"
	"community_exchange/routes"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	app.BootstrapFirstStaff(context.Background(), application.Config,
		db.NewRepo(application.DB), application.Log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
