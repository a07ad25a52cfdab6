package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"polizacrm/server/internal/api"
	"polizacrm/server/internal/config"
	"polizacrm/server/internal/database"
	"polizacrm/server/internal/models"
	"polizacrm/server/internal/services"
	"polizacrm/server/internal/storage"
	"polizacrm/server/internal/utils"
)

func main() {
	// Загружаем переменные окружения из .env файла (если существует)
	// Игнорируем ошибку, если файл не найден (для production окружений)
	if err := godotenv.Load(); err != nil {
		log.Printf("ℹ️ .env файл не найден, используем переменные окружения системы")
	} else {
		log.Printf("✅ Переменные окружения загружены из .env файла")
	}

	// Загрузка конфигурации
	cfg := config.Load()

	// Логируем наличие DATABASE_URL (без пароля)
	if cfg.DatabaseURL != "" {
		safeURL := cfg.DatabaseURL
		if idx := strings.Index(safeURL, "@"); idx > 0 {
			if schemeIdx := strings.Index(safeURL, "://"); schemeIdx > 0 {
				safeURL = safeURL[:schemeIdx+3] + "***@" + safeURL[idx+1:]
			}
		}
		log.Printf("📋 DATABASE_URL установлен: %s", safeURL)
	}

	// Подключение к PostgreSQL
	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ PostgreSQL connection failed: %v", err)
	}
	defer database.ClosePostgres(db)

	// Выполняем миграции
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Подключение к Redis (advisory-локи фоновых задач)
	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	var redisUtil *utils.RedisClient
	if err != nil {
		log.Printf("⚠️ Redis connection failed: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		redisUtil = utils.NewRedisClient(redisClient)
	}
	defer database.CloseRedis(redisClient)

	// Kafka publisher для доменных событий
	publisher := services.NewEventPublisher(cfg.KafkaBrokers, cfg.KafkaUsername, cfg.KafkaPassword, cfg.KafkaCACert)
	if publisher != nil {
		defer publisher.Close()
		log.Printf("📡 Kafka publisher запущен: брокеры %s", cfg.KafkaBrokers)
	} else {
		log.Println("⚠️ Kafka publisher не запущен: KAFKA_BROKERS не установлен")
	}

	// S3-совместимое хранилище документов
	var docStore storage.Store
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint, cfg.S3PublicBaseURL)
		if err != nil {
			log.Printf("⚠️ S3 storage не настроен: %v (документы не будут сохраняться)", err)
		} else {
			docStore = s3Store
			log.Printf("✅ S3 storage подключен: bucket %s", cfg.S3Bucket)
		}
	} else {
		log.Println("⚠️ S3 storage не настроен: S3_BUCKET не установлен")
	}

	// Gemini клиент извлечения данных из PDF полисов
	// Без ключа клиент отвечает демо-данными с confidence 0
	gemini := services.NewGeminiClient(cfg.GeminiAPIKey)
	if cfg.GeminiAPIKey == "" {
		log.Println("⚠️ GEMINI_API_KEY не установлен: извлечение вернет демо-данные")
	}

	// SMTP для напоминаний о продлении
	var mailer services.Mailer
	if cfg.SMTPHost != "" {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		log.Printf("✅ SMTP настроен: %s:%s", cfg.SMTPHost, cfg.SMTPPort)
	} else {
		log.Println("⚠️ SMTP не настроен: напоминания отправляться не будут")
	}

	// Сервисы
	clientService := services.NewClientService(db)
	policyService := services.NewPolicyService(db)
	claimService := services.NewClaimService(db)
	leadService := services.NewLeadService(db)
	reportService := services.NewReportService(db)
	reviewService := services.NewReviewService()
	importService := services.NewImportService(db, docStore, publisher)
	reminderService := services.NewReminderService(db, mailer)

	commissionService := services.NewCommissionService(db)
	commissionService.SetRedisUtil(redisUtil)
	commissionService.SetEventPublisher(publisher)

	paymentService := services.NewPaymentService(db)
	paymentService.SetRedisUtil(redisUtil)
	paymentService.SetEventPublisher(publisher)
	if cfg.PaymentLinkAPIURL != "" {
		paymentService.SetPaymentLinkClient(services.NewPaymentLinkClient(cfg.PaymentLinkAPIURL, cfg.PaymentLinkAPIKey))
		log.Println("✅ Провайдер платежных ссылок подключен")
	} else {
		log.Println("⚠️ PAYMENT_LINK_API_URL не установлен: платежные ссылки отключены")
	}

	// WebSocket хаб доски продаж
	go api.BoardHub.Run()

	// Планировщик ежедневных фоновых задач
	runner := &services.JobRunner{
		Commissions: commissionService,
		Payments:    paymentService,
		Policies:    policyService,
		Reminders:   reminderService,
	}
	services.StartScheduler(runner, cfg.JobHourUTC)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Health check endpoint (должен быть до CORS для Railway)
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "PolizaCRM Server",
			"version": "1.0.0",
		})
	})

	// Логирование всех запросов
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		log.Printf("🌐 %s %s - Status: %d - Latency: %v", method, path, status, latency)
	})

	// CORS для фронтенда
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Контроллеры
	authController := api.NewAuthController(db, cfg.JWTSecret)
	clientController := api.NewClientController(clientService)
	policyController := api.NewPolicyController(policyService)
	claimController := api.NewClaimController(claimService)
	leadController := api.NewLeadController(leadService, api.BoardHub)
	documentController := api.NewDocumentController(db, docStore)
	importController := api.NewImportController(gemini, reviewService, importService)
	paymentController := api.NewPaymentController(paymentService)
	commissionController := api.NewCommissionController(db, commissionService)
	jobsController := api.NewJobsController(runner)
	reportController := api.NewReportController(reportService)

	// API routes
	apiGroup := r.Group("/api/v1")

	// Авторизация
	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/login", authController.Login)
	}
	log.Println("🔐 Auth endpoints enabled: /api/v1/auth/login")

	// Все остальные маршруты требуют JWT
	protected := apiGroup.Group("")
	protected.Use(api.AuthMiddleware(cfg.JWTSecret))
	{
		clientGroup := protected.Group("/clients")
		{
			clientGroup.GET("", clientController.GetClients)           // Список клиентов
			clientGroup.GET("/:id", clientController.GetClient)        // Клиент по ID
			clientGroup.POST("", clientController.CreateClient)        // Создать клиента
			clientGroup.PUT("/:id", clientController.UpdateClient)     // Обновить клиента
			clientGroup.DELETE("/:id", clientController.DeleteClient)  // Удалить клиента
		}

		policyGroup := protected.Group("/policies")
		{
			policyGroup.GET("", policyController.GetPolicies)            // Список полисов
			policyGroup.GET("/:id", policyController.GetPolicy)          // Полис по ID
			policyGroup.POST("", policyController.CreatePolicy)          // Создать полис вручную
			policyGroup.PUT("/:id", policyController.UpdatePolicy)       // Обновить полис
			policyGroup.POST("/:id/renew", policyController.RenewPolicy) // Продлить полис
		}

		importGroup := protected.Group("/import")
		{
			importGroup.POST("/extract", importController.Extract) // PDF → кандидатные данные
			importGroup.POST("/confirm", importController.Confirm) // Подтвержденные данные → полис
		}

		claimGroup := protected.Group("/claims")
		{
			claimGroup.GET("", claimController.GetClaims)
			claimGroup.GET("/:id", claimController.GetClaim)
			claimGroup.POST("", claimController.CreateClaim)
			claimGroup.PUT("/:id", claimController.UpdateClaim)
			claimGroup.DELETE("/:id", claimController.DeleteClaim)
		}

		leadGroup := protected.Group("/leads")
		{
			leadGroup.GET("/board", leadController.GetBoard)      // Канбан-доска по этапам
			leadGroup.POST("", leadController.CreateLead)
			leadGroup.PUT("/:id", leadController.UpdateLead)
			leadGroup.PUT("/:id/move", leadController.MoveLead)   // Перемещение по доске
			leadGroup.DELETE("/:id", leadController.DeleteLead)
		}

		documentGroup := protected.Group("/documents")
		{
			documentGroup.GET("", documentController.GetDocuments)
			documentGroup.POST("", documentController.UploadDocument)
			documentGroup.DELETE("/:id", documentController.DeleteDocument)
		}

		paymentGroup := protected.Group("/payments")
		{
			paymentGroup.GET("", paymentController.GetPayments)
			paymentGroup.POST("/:id/link", paymentController.CreatePaymentLink) // Платежная ссылка
			paymentGroup.PUT("/:id/paid", paymentController.MarkPaid)
		}

		commissionGroup := protected.Group("/commissions")
		{
			commissionGroup.GET("", commissionController.GetCommissions)
			commissionGroup.PUT("/:id/paid", commissionController.MarkPaid)
			commissionGroup.GET("/rules", commissionController.GetRules)
			commissionGroup.POST("/rules", commissionController.CreateRule)
			commissionGroup.DELETE("/rules/:id", commissionController.DeleteRule)
		}

		jobsGroup := protected.Group("/jobs")
		{
			jobsGroup.POST("/commissions/run", jobsController.RunCommissions)
			jobsGroup.POST("/payments/run", jobsController.RunPayments)
			jobsGroup.POST("/expire/run", jobsController.RunExpire)
			jobsGroup.POST("/reminders/run", jobsController.RunReminders)
		}

		reportGroup := protected.Group("/reports")
		{
			reportGroup.GET("/policies.xlsx", reportController.ExportPolicies)
			reportGroup.GET("/commissions.xlsx", reportController.ExportCommissions)
		}
	}

	// WebSocket доски продаж (токен передается query-параметром, не заголовком)
	r.GET("/ws/board", api.BoardWebSocket)

	port := cfg.ServerPort
	log.Printf("🚀 Server starting on 0.0.0.0:%s", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
