package main

import (
	"fmt"
	"log"
	"os"

	"glambook-backend/config"
	"glambook-backend/controllers"
	"glambook-backend/models"
	"glambook-backend/routes"
	"glambook-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.InitLogger(os.Getenv("ENV"))
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Lead{},
		&models.Note{},
		&models.Contract{},
		&models.ContractItem{},
		&models.EsignField{},
		&models.Invoice{},
		&models.InvoiceLine{},
		&models.Payment{},
		&models.Appointment{},
		&models.NotificationLog{},
	)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	sender := services.NewTwilioSender()
	controllers.Sender = sender

	reminders := services.NewReminderService(config.DB, sender, config.Log)
	reminders.StartScheduler()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
