package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/franciscosanchezn/gin-employee-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-employee-api/internal/auth"
	"github.com/franciscosanchezn/gin-employee-api/internal/config"
	"github.com/franciscosanchezn/gin-employee-api/internal/controllers"
	"github.com/franciscosanchezn/gin-employee-api/internal/database"
	"github.com/franciscosanchezn/gin-employee-api/internal/graph"
	"github.com/franciscosanchezn/gin-employee-api/internal/metrics"
	"github.com/franciscosanchezn/gin-employee-api/internal/middleware"
	"github.com/franciscosanchezn/gin-employee-api/internal/services"
	"github.com/franciscosanchezn/gin-employee-api/internal/session"
	"github.com/franciscosanchezn/gin-employee-api/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// @title Employee Directory API
// @version 1.0
// @description GraphQL employee directory with role-based access
// @host localhost:4000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token returned by the login mutation.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()

	// Connect the store before accepting any request
	employeeStore, closeStore := setupStore(configuration)
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to close store connection")
		}
	}()

	tokens, err := auth.NewTokenManager(configuration.JWTSecret, configuration.TokenTTL)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize token manager")
	}

	// Initialize services and controllers
	logger := log.StandardLogger()
	employeeService := services.NewEmployeeService(employeeStore, tokens, logger)
	schema, err := graph.NewSchema(employeeService, logger, graph.Options{MaxDepth: configuration.GraphQLMaxDepth})
	if err != nil {
		log.WithError(err).Fatal("Failed to build GraphQL schema")
	}

	router := setupRouter(configuration)
	controllers.SetupRoutes(router, controllers.Routes{
		GraphQL: controllers.NewGraphQLController(schema, logger),
		Health:  controllers.NewHealthController(employeeStore, logger),
		Session: middleware.Session(session.NewResolver(tokens, employeeStore, logger), employeeService, configuration.LoaderWait),
	})

	// Start the server
	serve(router, configuration)
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment.
// LOG_LEVEL, when set, overrides the environment default.
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	if level := config.GetEnvWithDefault("LOG_LEVEL", ""); level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			log.WithField("log_level", level).Warn("Ignoring invalid LOG_LEVEL")
			return
		}
		log.SetLevel(parsed)
	}
	database.SetLogger(log.StandardLogger())
}

// loadConfig loads the application configuration from environment variables
// It exits the process when a required setting is missing or invalid
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	if err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			log.WithField("key", cfgErr.Key).Fatal(cfgErr.Error())
		}
		log.WithError(err).Fatal("Failed to load configuration")
	}
	return conf
}

// setupStore connects to the configured backend and ensures its indexes exist
func setupStore(conf *config.Config) (store.EmployeeStore, func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	employeeStore, closeStore, err := store.Open(ctx, conf.Database())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := employeeStore.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}
	log.WithField("db_driver", conf.DBDriver).Info("Database connected successfully")
	return employeeStore, closeStore
}

// setupRouter initializes the Gin router with the global middleware
func setupRouter(conf *config.Config) *gin.Engine {
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log.StandardLogger()))
	router.Use(metrics.GinMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	return router
}

// serve runs the HTTP server until SIGINT or SIGTERM, then drains in-flight requests
func serve(router *gin.Engine, conf *config.Config) {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on %s:%d", conf.Host, conf.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shut down")
	}
	log.Info("Server exited")
}
