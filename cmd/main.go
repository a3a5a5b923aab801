package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"caretrack/internal/caching"
	"caretrack/internal/handlers"
	"caretrack/internal/jobs/background"
	"caretrack/internal/middleware"
	"caretrack/internal/repositories"
	"caretrack/internal/services"
	"caretrack/pkg/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using process environment")
	}

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret: %s", jwtSecret)
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"
	fileBucket := os.Getenv("MINIO_BUCKET")
	if fileBucket == "" {
		fileBucket = "caretrack-files"
	}

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(context.Background(), fileBucket); err != nil {
		log.Printf("WARNING: could not ensure bucket %s: %v", fileBucket, err)
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	b2cLeadRepo := repositories.NewB2CLeadRepo(pool)
	b2bLeadRepo := repositories.NewB2BLeadRepo(pool)
	followUpRepo := repositories.NewFollowUpRepo(pool)
	customerRepo := repositories.NewCustomerRepo(pool)
	bookingRepo := repositories.NewBookingRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	employeeRepo := repositories.NewEmployeeRepo(pool)
	expenseRepo := repositories.NewExpenseRepo(pool)
	partnerRepo := repositories.NewChannelPartnerRepo(pool)
	campRepo := repositories.NewCampRepo(pool)
	saleRepo := repositories.NewSaleRepo(pool)
	purchaseRepo := repositories.NewPurchaseRepo(pool)
	receivedRepo := repositories.NewPaymentReceivedRepo(pool)
	madeRepo := repositories.NewPaymentMadeRepo(pool)
	accountRepo := repositories.NewAccountRepo(pool)
	summaryRepo := repositories.NewFinanceSummaryRepo(pool)
	serviceRepo := repositories.NewServiceRepo(pool)
	settingRepo := repositories.NewSettingRepo(pool)
	auditLogRepo := repositories.NewAuditLogRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)
	defer cacheSvc.Close()

	// Create services
	authSvc := services.NewAuthService(userRepo, cacheSvc, jwtSecret)
	leadSvc := services.NewLeadService(b2cLeadRepo, b2bLeadRepo)
	followUpSvc := services.NewFollowUpService(followUpRepo, b2cLeadRepo, b2bLeadRepo)
	customerSvc := services.NewCustomerService(pool, customerRepo, b2cLeadRepo)
	bookingSvc := services.NewBookingService(pool, bookingRepo, paymentRepo)
	employeeSvc := services.NewEmployeeService(employeeRepo)
	expenseSvc := services.NewExpenseService(expenseRepo, bookingRepo)
	partnerSvc := services.NewPartnerService(partnerRepo)
	campSvc := services.NewCampService(campRepo)
	financeSvc := services.NewFinanceService(pool, saleRepo, purchaseRepo, receivedRepo, madeRepo, accountRepo, summaryRepo, cacheSvc)
	catalogSvc := services.NewCatalogService(serviceRepo)
	settingSvc := services.NewSettingService(settingRepo, cacheSvc)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	leadHandlers := handlers.NewLeadHandlers(leadSvc, customerSvc)
	followUpHandlers := handlers.NewFollowUpHandlers(followUpSvc)
	customerHandlers := handlers.NewCustomerHandlers(customerSvc, bookingSvc)
	bookingHandlers := handlers.NewBookingHandlers(bookingSvc, expenseSvc)
	employeeHandlers := handlers.NewEmployeeHandlers(employeeSvc, minioSvc, fileBucket)
	expenseHandlers := handlers.NewExpenseHandlers(expenseSvc)
	partnerHandlers := handlers.NewPartnerHandlers(partnerSvc)
	campHandlers := handlers.NewCampHandlers(campSvc)
	financeHandlers := handlers.NewFinanceHandlers(financeSvc)
	serviceHandlers := handlers.NewServiceHandlers(catalogSvc)
	settingHandlers := handlers.NewSettingHandlers(settingSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(followUpSvc, financeSvc, expenseSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler := background.NewJobScheduler(bookingRepo, paymentRepo, followUpRepo, financeSvc, cacheSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoint (no auth required)
	e.GET("/health", healthHandlers.Health)

	v1 := e.Group("/v1")

	// Authentication routes (no JWT required for login/refresh)
	auth := v1.Group("/auth")
	auth.POST("/login", authHandlers.Login)
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/refresh", authHandlers.Refresh)

	// Protected routes
	protected := v1.Group("", middleware.JWTMiddleware(jwtSecret))
	protected.POST("/auth/logout", authHandlers.Logout)
	protected.GET("/me", authHandlers.Me)
	protected.POST("/me/password", authHandlers.ChangePassword)

	// User administration
	users := protected.Group("/users",
		middleware.RequireModule(userRepo, services.ModuleUsers),
		middleware.AuditTrail(auditLogRepo, "user"))
	users.GET("", authHandlers.ListUsers)
	users.POST("", authHandlers.CreateUser)
	users.PUT("/:id", authHandlers.UpdateUser)

	// Dashboard
	dashboard := protected.Group("/dashboard",
		middleware.RequireModule(userRepo, services.ModuleDashboard))
	dashboard.GET("", dashboardHandlers.Overview)

	// B2C leads
	b2c := protected.Group("/leads/b2c",
		middleware.RequireModule(userRepo, services.ModuleLeadsB2C),
		middleware.AuditTrail(auditLogRepo, "b2c_lead"))
	b2c.GET("", leadHandlers.ListB2CLeads)
	b2c.POST("", leadHandlers.CreateB2CLead)
	b2c.GET("/export", leadHandlers.ExportB2CLeads)
	b2c.POST("/import", leadHandlers.ImportB2CLeads)
	b2c.GET("/:id", leadHandlers.GetB2CLead)
	b2c.PUT("/:id", leadHandlers.UpdateB2CLead)
	b2c.DELETE("/:id", leadHandlers.DeleteB2CLead)
	b2c.POST("/:id/convert", leadHandlers.ConvertB2CLead)

	// B2B leads
	b2b := protected.Group("/leads/b2b",
		middleware.RequireModule(userRepo, services.ModuleLeadsB2B),
		middleware.AuditTrail(auditLogRepo, "b2b_lead"))
	b2b.GET("", leadHandlers.ListB2BLeads)
	b2b.POST("", leadHandlers.CreateB2BLead)
	b2b.GET("/export", leadHandlers.ExportB2BLeads)
	b2b.GET("/:id", leadHandlers.GetB2BLead)
	b2b.PUT("/:id", leadHandlers.UpdateB2BLead)
	b2b.DELETE("/:id", leadHandlers.DeleteB2BLead)

	// Follow-ups
	followUps := protected.Group("/follow-ups",
		middleware.RequireModule(userRepo, services.ModuleFollowUps),
		middleware.AuditTrail(auditLogRepo, "follow_up"))
	followUps.GET("", followUpHandlers.ListFollowUps)
	followUps.POST("", followUpHandlers.CreateFollowUp)
	followUps.GET("/due-today", followUpHandlers.DueToday)
	followUps.PUT("/:id", followUpHandlers.UpdateFollowUp)
	followUps.DELETE("/:id", followUpHandlers.DeleteFollowUp)

	// Offered services catalog
	serviceRoutes := protected.Group("/services",
		middleware.RequireModule(userRepo, services.ModuleServices),
		middleware.AuditTrail(auditLogRepo, "service"))
	serviceRoutes.GET("", serviceHandlers.ListServices)
	serviceRoutes.POST("", serviceHandlers.CreateService)
	serviceRoutes.GET("/:id", serviceHandlers.GetService)
	serviceRoutes.PUT("/:id", serviceHandlers.UpdateService)

	// Customers
	customers := protected.Group("/customers",
		middleware.RequireModule(userRepo, services.ModuleCustomers),
		middleware.AuditTrail(auditLogRepo, "customer"))
	customers.GET("", customerHandlers.ListCustomers)
	customers.POST("", customerHandlers.CreateCustomer)
	customers.GET("/:id", customerHandlers.GetCustomer)
	customers.PUT("/:id", customerHandlers.UpdateCustomer)
	customers.GET("/:id/bookings", customerHandlers.ListCustomerBookings)

	// Bookings and payments
	bookings := protected.Group("/bookings",
		middleware.RequireModule(userRepo, services.ModuleBookings),
		middleware.AuditTrail(auditLogRepo, "booking"))
	bookings.GET("", bookingHandlers.ListBookings)
	bookings.POST("", bookingHandlers.CreateBooking)
	bookings.GET("/code/:code", bookingHandlers.GetBookingByCode)
	bookings.GET("/:id", bookingHandlers.GetBooking)
	bookings.PUT("/:id", bookingHandlers.UpdateBooking)
	bookings.GET("/:id/statement", bookingHandlers.StatementPDF)
	bookings.GET("/:id/expenses", bookingHandlers.ListBookingExpenses)
	bookings.GET("/:id/payments", bookingHandlers.ListPayments)
	bookings.POST("/:id/payments", bookingHandlers.AddPayment)
	bookings.PUT("/:id/payments/:paymentID", bookingHandlers.UpdatePayment)

	// Employees
	employees := protected.Group("/employees",
		middleware.RequireModule(userRepo, services.ModuleEmployees),
		middleware.AuditTrail(auditLogRepo, "employee"))
	employees.GET("", employeeHandlers.ListEmployees)
	employees.POST("", employeeHandlers.CreateEmployee)
	employees.GET("/:id", employeeHandlers.GetEmployee)
	employees.PUT("/:id", employeeHandlers.UpdateEmployee)
	employees.DELETE("/:id", employeeHandlers.DeleteEmployee)
	employees.POST("/:id/files/:kind", employeeHandlers.UploadFile)
	employees.GET("/:id/files/:kind", employeeHandlers.FileURL)

	// Expenses
	expenses := protected.Group("/expenses",
		middleware.RequireModule(userRepo, services.ModuleExpenses),
		middleware.AuditTrail(auditLogRepo, "expense"))
	expenses.GET("", expenseHandlers.ListExpenses)
	expenses.POST("", expenseHandlers.CreateExpense)
	expenses.GET("/category-totals", expenseHandlers.CategoryTotals)
	expenses.GET("/:id", expenseHandlers.GetExpense)
	expenses.PUT("/:id", expenseHandlers.UpdateExpense)
	expenses.DELETE("/:id", expenseHandlers.DeleteExpense)

	// Channel partners
	partners := protected.Group("/channel-partners",
		middleware.RequireModule(userRepo, services.ModuleChannelPartners),
		middleware.AuditTrail(auditLogRepo, "channel_partner"))
	partners.GET("", partnerHandlers.ListPartners)
	partners.POST("", partnerHandlers.CreatePartner)
	partners.GET("/:id", partnerHandlers.GetPartner)
	partners.PUT("/:id", partnerHandlers.UpdatePartner)
	partners.DELETE("/:id", partnerHandlers.DeletePartner)

	// Health camps
	camps := protected.Group("/camps",
		middleware.RequireModule(userRepo, services.ModuleCamps),
		middleware.AuditTrail(auditLogRepo, "camp"))
	camps.GET("", campHandlers.ListCamps)
	camps.POST("", campHandlers.CreateCamp)
	camps.GET("/export", campHandlers.ExportCamps)
	camps.GET("/collection-total", campHandlers.CollectionTotal)
	camps.GET("/:id", campHandlers.GetCamp)
	camps.PUT("/:id", campHandlers.UpdateCamp)
	camps.DELETE("/:id", campHandlers.DeleteCamp)

	// Finance
	finance := protected.Group("/finance",
		middleware.RequireModule(userRepo, services.ModuleFinance),
		middleware.AuditTrail(auditLogRepo, "finance"))
	finance.GET("/totals", financeHandlers.Totals)
	finance.GET("/monthly-totals", financeHandlers.MonthlyTotals)
	finance.GET("/sales", financeHandlers.ListSales)
	finance.POST("/sales", financeHandlers.CreateSale)
	finance.GET("/sales/:id", financeHandlers.GetSale)
	finance.PUT("/sales/:id", financeHandlers.UpdateSale)
	finance.DELETE("/sales/:id", financeHandlers.DeleteSale)
	finance.GET("/purchases", financeHandlers.ListPurchases)
	finance.POST("/purchases", financeHandlers.CreatePurchase)
	finance.GET("/purchases/:id", financeHandlers.GetPurchase)
	finance.PUT("/purchases/:id", financeHandlers.UpdatePurchase)
	finance.DELETE("/purchases/:id", financeHandlers.DeletePurchase)
	finance.GET("/payments-received", financeHandlers.ListPaymentsReceived)
	finance.POST("/payments-received", financeHandlers.CreatePaymentReceived)
	finance.PUT("/payments-received/:id", financeHandlers.UpdatePaymentReceived)
	finance.DELETE("/payments-received/:id", financeHandlers.DeletePaymentReceived)
	finance.GET("/payments-made", financeHandlers.ListPaymentsMade)
	finance.POST("/payments-made", financeHandlers.CreatePaymentMade)
	finance.PUT("/payments-made/:id", financeHandlers.UpdatePaymentMade)
	finance.DELETE("/payments-made/:id", financeHandlers.DeletePaymentMade)
	finance.GET("/accounts", financeHandlers.ListAccounts)
	finance.POST("/accounts", financeHandlers.CreateAccount)
	finance.PUT("/accounts/:id", financeHandlers.UpdateAccount)
	finance.DELETE("/accounts/:id", financeHandlers.DeleteAccount)

	// Settings
	settings := protected.Group("/settings",
		middleware.RequireModule(userRepo, services.ModuleSettings),
		middleware.AuditTrail(auditLogRepo, "setting"))
	settings.GET("", settingHandlers.ListSettings)
	settings.POST("", settingHandlers.CreateSetting)
	settings.GET("/groups", settingHandlers.ListGroups)
	settings.PUT("/:id", settingHandlers.UpdateSetting)
	settings.DELETE("/:id", settingHandlers.DeleteSetting)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
