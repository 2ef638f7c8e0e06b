package main

import (
	"fmt"
	"log"
	"net/http"

	"fiordispino/backend/internal/auth"
	"fiordispino/backend/internal/config"
	"fiordispino/backend/internal/database"
	"fiordispino/backend/internal/handler"
	"fiordispino/backend/internal/metrics"
	"fiordispino/backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	// Swagger imports
	_ "fiordispino/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Fiordispino API
// @version         1.0
// @description     This is the API for the fiordispino game library service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	router := gin.Default()

	router.Use(middleware.RequestID())
	router.Use(cors.Default())

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	router.Use(collector.Middleware())
	router.GET("/metrics", metrics.Handler(registry))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me", handler.UpdateMe)
		}

		// Catalog routes (read open to everyone)
		gameRoutes := apiV1.Group("/games")
		{
			gameRoutes.GET("", handler.GetGames)
			gameRoutes.GET("/random", handler.GetRandomGames) // Must be before /:id
			gameRoutes.GET("/:id", handler.GetGameByID)
		}

		genreRoutes := apiV1.Group("/genres")
		{
			genreRoutes.GET("", handler.GetGenres)
			genreRoutes.GET("/:id", handler.GetGenreByID)
		}

		// Backlog ("games to play") routes. Reads are open; mutations need an
		// authenticated caller and go through the consistency engine.
		backlogRoutes := apiV1.Group("/backlog")
		backlogRoutes.Use(auth.OptionalAuthMiddleware())
		{
			backlogRoutes.GET("", handler.GetBacklogEntries)
			backlogRoutes.GET("/owner/:username", handler.GetBacklogByOwner)
			backlogRoutes.GET("/:id", handler.GetBacklogEntryByID)
		}
		backlogWrite := apiV1.Group("/backlog")
		backlogWrite.Use(auth.AuthMiddleware())
		{
			backlogWrite.POST("", handler.AddToBacklog)
			backlogWrite.DELETE("/:id", handler.DeleteBacklogEntry)
			backlogWrite.POST("/:id/move-to-played", handler.MoveToPlayed)
		}

		// Played list routes, same shape as the backlog.
		playedRoutes := apiV1.Group("/played")
		playedRoutes.Use(auth.OptionalAuthMiddleware())
		{
			playedRoutes.GET("", handler.GetPlayedEntries)
			playedRoutes.GET("/owner/:username", handler.GetPlayedByOwner)
			playedRoutes.GET("/:id", handler.GetPlayedEntryByID)
		}
		playedWrite := apiV1.Group("/played")
		playedWrite.Use(auth.AuthMiddleware())
		{
			playedWrite.POST("", handler.AddToPlayed)
			playedWrite.PUT("/:id", handler.UpdatePlayedRating)
			playedWrite.DELETE("/:id", handler.DeletePlayedEntry)
			playedWrite.POST("/:id/move-to-backlog", handler.MoveToBacklog)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			// Genres CRUD
			genres := adminRoutes.Group("/genres")
			{
				genres.POST("", handler.CreateGenre)
				genres.PUT("/:id", handler.UpdateGenre)
				genres.DELETE("/:id", handler.DeleteGenre)
			}

			// Games CRUD (admin-only parts)
			adminGameRoutes := adminRoutes.Group("/games")
			{
				adminGameRoutes.POST("", handler.CreateGame)
				adminGameRoutes.PUT("/:id", handler.UpdateGame)
				adminGameRoutes.DELETE("/:id", handler.DeleteGame)
			}

			// User management
			adminUserRoutes := adminRoutes.Group("/users")
			{
				adminUserRoutes.GET("", handler.GetUsers)
				adminUserRoutes.GET("/:id", handler.GetUserByID)
				adminUserRoutes.DELETE("/:id", handler.DeleteUser)
			}
		}
	}

	fmt.Printf("Server is running on %s\n", config.AppConfig.ServerAddress)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddress))
}
