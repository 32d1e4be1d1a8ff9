package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/devfolio/portfolio-backend/internal/config"
	"github.com/devfolio/portfolio-backend/internal/database"
	"github.com/devfolio/portfolio-backend/internal/feedback"
	"github.com/devfolio/portfolio-backend/internal/handlers"
	"github.com/devfolio/portfolio-backend/internal/middleware"
	"github.com/devfolio/portfolio-backend/internal/routes"
	"github.com/devfolio/portfolio-backend/internal/services"
	"github.com/devfolio/portfolio-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if cfg.IsProduction() && cfg.JWTSecret == "your-secret-key-change-in-production" {
		log.Fatal("JWT_SECRET must be set in production")
	}

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	mongoClient, mongoDB, err := database.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.DisconnectMongo(mongoClient)

	// Connect to PostgreSQL (admin accounts)
	log.Printf("Connecting to PostgreSQL...")
	postgres, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer postgres.Close()

	// Connect to Redis (quota counters + event fan-out). Optional: the
	// service degrades to unlimited quota and local-only fan-out.
	log.Printf("Connecting to Redis...")
	redisClient, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Printf("⚠️  WARNING: Redis unavailable, submission quotas disabled: %v", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	st := store.NewMongo(mongoDB)
	if err := st.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	var quota feedback.Quota
	if redisClient != nil {
		quota = &feedback.RedisQuota{
			Client: redisClient,
			Limits: map[string]int{
				feedback.KindComment:    cfg.CommentDailyLimit,
				feedback.KindSuggestion: cfg.SuggestionDailyLimit,
			},
		}
	}

	var notifier feedback.Notifier
	if cfg.SendGridAPIKey != "" && cfg.NotifyToEmail != "" {
		notifier = services.NewEmailNotifier(cfg.SendGridAPIKey, cfg.NotifyFromEmail, cfg.NotifyToEmail)
		log.Println("✅ Email notifications enabled")
	} else {
		log.Println("Warning: SendGrid not configured. Submission emails disabled")
	}

	feed := services.NewEventBridge(redisClient)
	feed.StartSubscriber(context.Background())

	svc := feedback.New(st, quota, notifier, feed)

	var uploads *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		uploads, err = services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			uploads = nil
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Image uploads disabled")
	}

	tokens := services.NewTokenService(cfg.JWTSecret)
	api := handlers.New(svc, st, tokens, postgres, uploads, feed)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.GlobalRateLimit())
		r.Use(middleware.SigninRateLimit())
		log.Println("✅ Production security enabled (security headers, per-IP + signin rate limiting)")
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.Setup(r, api)

	log.Printf("🚀 Portfolio backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
