package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agenda-service/config"
	"agenda-service/internal/agenda"
	"agenda-service/internal/api"
	"agenda-service/internal/event"
	"agenda-service/internal/holiday"
	"agenda-service/internal/middleware"
	"agenda-service/internal/notify"
	"agenda-service/internal/realtime"
	"agenda-service/internal/user"
	"agenda-service/pkg/consul"
	"agenda-service/pkg/firebase"
	"agenda-service/pkg/zap"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.LoadConfig()

	logger, err := zap.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.ConsulEnabled {
		consulConn := consul.NewConsulConn(logger, cfg)
		deregister, err := consulConn.Register()
		if err != nil {
			logger.Warnw("consul registration failed, continuing without it", "error", err)
		} else {
			defer deregister()
		}
	}

	mongoClient, err := connectToMongoDB(cfg.MongoURI)
	if err != nil {
		logger.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error(err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB)
	hub := realtime.NewHub(logger)

	eventRepository := event.NewEventRepository(db.Collection("events"))
	agendaRepository := agenda.NewAgendaRepository(db.Collection("agendas"))
	userRepository := user.NewUserRepository(db.Collection("users"))

	agendaService := agenda.NewAgendaService(agendaRepository, eventRepository, hub, logger)
	eventService := event.NewEventService(eventRepository, agendaService, holiday.NewFrench(), hub, logger, cfg.HolidayEmoji)
	userService := user.NewUserService(userRepository, agendaService, user.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL), logger)

	// Setup cron
	firebaseApp, err := firebase.SetUpFireBase(context.Background(), cfg.FirebaseCredentialsFile)
	if err != nil {
		logger.Warnw("firebase unavailable, push reminders disabled", "error", err)
	}

	location, err := time.LoadLocation(cfg.NotifyTimezone)
	if err != nil {
		logger.Warnw("unknown NOTIFY_TIMEZONE, using UTC", "timezone", cfg.NotifyTimezone, "error", err)
		location = time.UTC
	}

	reminder := notify.NewReminder(eventService, userService, firebase.NewPushSender(firebaseApp),
		time.Duration(cfg.NotifyLeadMinutes)*time.Minute, location, logger)

	c := cron.New(cron.WithSeconds())
	if _, err := reminder.Schedule(c, cfg.NotifyCron); err != nil {
		logger.Fatalf("Invalid NOTIFY_CRON %q: %v", cfg.NotifyCron, err)
	}
	c.Start()
	defer c.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Handlers{
		Events:  event.NewEventHandler(eventService),
		Agendas: agenda.NewAgendaHandler(agendaService),
		Users:   user.NewUserHandler(userService),
		Hub:     hub,
	}, middleware.Secured([]byte(cfg.JWTSecret)), middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error shutting down server: %v", err)
	}
	logger.Info("Server stopped")
}

func connectToMongoDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Println("Failed to connect to MongoDB")
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Println("Failed to ping MongoDB")
		return nil, err
	}

	log.Println("Successfully connected to MongoDB")
	return client, nil
}
