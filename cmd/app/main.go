package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"fooddrop/cmd"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	startWorker(&app)
	startJobs(&app)
	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:                 goDotEnvVariable("HTTP_PORT"),
		DBHost:                   goDotEnvVariable("DB_HOST"),
		DBPort:                   goDotEnvVariable("DB_PORT"),
		DBUser:                   goDotEnvVariable("DB_USER"),
		DBPassword:               goDotEnvVariable("DB_PASSWORD"),
		DBName:                   goDotEnvVariable("DB_NAME"),
		DBSslMode:                goDotEnvVariable("DB_SSLMODE"),
		WarehouseLat:             goDotEnvVariable("WAREHOUSE_LAT"),
		WarehouseLon:             goDotEnvVariable("WAREHOUSE_LON"),
		RoutingAlgorithm:         goDotEnvVariable("ROUTING_ALGORITHM"),
		FleetRoutingEndpoint:     goDotEnvVariable("FLEET_ROUTING_ENDPOINT"),
		FleetRoutingTokenURL:     goDotEnvVariable("FLEET_ROUTING_TOKEN_URL"),
		FleetRoutingClientID:     goDotEnvVariable("FLEET_ROUTING_CLIENT_ID"),
		FleetRoutingClientSecret: goDotEnvVariable("FLEET_ROUTING_CLIENT_SECRET"),
		GeocodingEndpoint:        goDotEnvVariable("GEOCODING_ENDPOINT"),
		GeocodingAPIKey:          goDotEnvVariable("GEOCODING_API_KEY"),
		WorkerPollInterval:       goDotEnvVariable("WORKER_POLL_INTERVAL"),
		JobTimeout:               goDotEnvVariable("JOB_TIMEOUT"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func startWorker(app *cmd.CompositionRoot) {
	worker, err := app.CreateJobWorker()
	if err != nil {
		log.Fatalf("Error creating job worker: %v", err)
	}
	go worker.Run(context.Background())
}

func startJobs(app *cmd.CompositionRoot) {
	jobManager, err := app.CreateJobManager()
	if err != nil {
		log.Fatalf("Error creating job manager: %v", err)
	}
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting scheduled jobs: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	app.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
