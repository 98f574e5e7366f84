package routes

import (
	"os"
	"strings"

	"glambook-backend/config"
	"glambook-backend/controllers"
	"glambook-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(), utils.AdminRequired())
	{
		// Lead routes
		leads := api.Group("/leads")
		{
			leads.POST("", controllers.CreateLead)
			leads.GET("", controllers.GetLeads)
			leads.GET("/:id", controllers.GetLead)
			leads.PUT("/:id", controllers.UpdateLead)
			leads.DELETE("/:id", controllers.DeleteLead)
			leads.PUT("/:id/stage", controllers.UpdateLeadStage)
			leads.PUT("/:id/pricing", controllers.UpdateLeadPricing)
			leads.POST("/:id/notes", controllers.AddNote)
			leads.PUT("/:id/intake", controllers.MergeIntake)

			// Contract routes
			leads.GET("/:id/contracts", controllers.GetContracts)
			leads.GET("/:id/contracts/draft", controllers.BuildContractDraft)
			leads.POST("/:id/contracts", controllers.SaveContractVersion)
			leads.POST("/:id/contracts/:contractId/send", controllers.SendContract)
			leads.POST("/:id/contracts/:contractId/esign", controllers.RecordContractEsign)

			// Invoice routes
			leads.GET("/:id/invoices", controllers.GetInvoices)
			leads.POST("/:id/invoices", controllers.CreateOrReplaceInvoice)
			leads.POST("/:id/invoices/:invoiceId/payments", controllers.RecordInvoicePayment)
			leads.POST("/:id/invoices/:invoiceId/void", controllers.VoidInvoice)
		}

		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", controllers.CreateAppointment)
			appointments.GET("/calendar", controllers.GetCalendar)
			appointments.PUT("/:id", controllers.UpdateAppointment)
			appointments.DELETE("/:id", controllers.DeleteAppointment)
		}

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)
		api.GET("/alerts", controllers.GetAlerts)
	}

	// Client portal, scoped by portal key instead of staff auth
	portal := r.Group("/portal")
	{
		portal.POST("/register", controllers.PortalRegister)
		portal.GET("", controllers.GetPortalLead)
		portal.PUT("/intake", controllers.UpdatePortalIntake)
		portal.POST("/contracts/:contractId/esign", controllers.SubmitPortalEsign)
	}

	return r
}
