package main

import (
	"log"
	"os"
	"path/filepath"

	"suggestion-box-api/config"
	"suggestion-box-api/middleware"
	"suggestion-box-api/models"
	"suggestion-box-api/routes"
	"suggestion-box-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize logging
	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	// Initialize database
	config.InitDB()
	if err := config.DB.AutoMigrate(&models.Suggestion{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Load the offensive-word denylist once; it stays immutable for the
	// lifetime of the process.
	services.InitModeration(config.OffensiveWords())

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Setup API routes
	routes.SetupRoutes(router)

	// Serve the institutional site and admin panel when a static root is
	// configured. Request throttling is left to the reverse proxy in front.
	if staticDir := os.Getenv("STATIC_DIR"); staticDir != "" {
		router.StaticFile("/", filepath.Join(staticDir, "index.html"))
		router.Static("/caja-sugerencias", filepath.Join(staticDir, "www"))
		router.Static("/admin", filepath.Join(staticDir, "admin"))
	}

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "5000"
	}

	log.Printf("🚀 Suggestion box API starting on port %s", port)
	log.Printf("📊 Database connected successfully")

	if ginMode == "release" {
		log.Printf("🏭 Running in production mode")
	} else {
		log.Printf("🔧 Running in development mode")
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal("❌ Failed to start server:", err)
	}
}
