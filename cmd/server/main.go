package main

import (
	"log"
	"strconv"
	"time"

	"github.com/JException/mentee-hotline/internal/config"
	"github.com/JException/mentee-hotline/internal/database"
	"github.com/JException/mentee-hotline/internal/handlers"
	"github.com/JException/mentee-hotline/internal/middleware"
	"github.com/JException/mentee-hotline/internal/services"
	"github.com/JException/mentee-hotline/internal/ws"

	_ "github.com/JException/mentee-hotline/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Huddle API
// @version         1.0
// @description     Mentor/group messaging and ticketing backend with heartbeat-based presence
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

const seededGroups = 11

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()

	windowSec, _ := strconv.Atoi(cfg.HeartbeatWindow)
	if windowSec <= 0 {
		windowSec = 60
	}

	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.AdminAccessCode)
	heartbeatService := services.NewHeartbeatService(db, time.Duration(windowSec)*time.Second)
	messageService := services.NewMessageService(db)
	ticketService := services.NewTicketService(db)
	participantService := services.NewParticipantService(db)
	seedService := services.NewSeedService(db, seededGroups, participantService)

	authHandler := handlers.NewAuthHandler(authService)
	heartbeatHandler := handlers.NewHeartbeatHandler(heartbeatService)
	messageHandler := handlers.NewMessageHandler(messageService, hub)
	ticketHandler := handlers.NewTicketHandler(ticketService, hub)
	groupHandler := handlers.NewGroupHandler(participantService, seedService)
	settingsHandler := handlers.NewSettingsHandler(participantService)
	healthHandler := handlers.NewHealthHandler(db)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", healthHandler.Check)
	r.GET("/ws/group/:group", wsHandler.HandleGroupSocket)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/verify", authHandler.Verify)
		api.GET("/heartbeat", heartbeatHandler.Counts)

		authed := api.Group("")
		authed.Use(middleware.SessionAuth(authService))
		{
			authed.POST("/heartbeat", heartbeatHandler.Beat)

			authed.GET("/messages", messageHandler.List)
			authed.POST("/messages", messageHandler.Send)
			authed.PATCH("/messages", messageHandler.Pin)

			authed.GET("/tickets", ticketHandler.List)
			authed.POST("/tickets", ticketHandler.Create)
			authed.PATCH("/tickets", ticketHandler.Act)
			authed.PUT("/tickets", ticketHandler.Update)
			authed.DELETE("/tickets", ticketHandler.Delete)

			authed.GET("/groups", groupHandler.List)
			authed.PATCH("/settings", settingsHandler.Update)

			mentor := authed.Group("")
			mentor.Use(middleware.MentorOnly())
			{
				mentor.DELETE("/messages", messageHandler.Purge)
				mentor.POST("/groups", groupHandler.Create)
				mentor.PATCH("/groups", groupHandler.Update)
				mentor.POST("/seed", groupHandler.Seed)
			}
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
