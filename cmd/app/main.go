package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"kargotrack/cmd"
	adapterhttp "kargotrack/internal/adapters/in/http"
	"kargotrack/internal/adapters/out/postgres/historyrepo"
	"kargotrack/internal/adapters/out/postgres/parcelrepo"
	"kargotrack/internal/adapters/out/postgres/pickuppointrepo"
	"kargotrack/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	db := connectDB(configs)

	app := cmd.NewCompositionRoot(configs, db)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	jobManager := jobs.NewJobManager(
		app.CreateSweepDueParcelsCommandHandler(),
		configs.SweepSchedule,
		configs.SweepBatchSize,
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		SecondScanDelayHours:    envInt("SECOND_SCAN_DELAY_HOURS", 0),
		ReceivedAfterDays:       envInt("RECEIVED_AFTER_DAYS", 0),
		LocalHubAfterDays:       envInt("LOCAL_HUB_AFTER_DAYS", 0),
		LocalClassifyAfterHours: envInt("LOCAL_CLASSIFY_AFTER_HOURS", 0),

		SweepSchedule:  envOr("SWEEP_SCHEDULE", jobs.DefaultSweepSchedule),
		SweepBatchSize: envInt("SWEEP_BATCH_SIZE", 200),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return value
}

func connectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&parcelrepo.ParcelDTO{},
		&historyrepo.HistoryEventDTO{},
		&pickuppointrepo.PickupPointDTO{},
	)
	if err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func startWebServer(app cmd.CompositionRoot, port string) {
	e := echo.New()

	server := adapterhttp.NewServer(
		app.CreateProcessCheckpointScanCommandHandler(),
		app.CreateClaimParcelsCommandHandler(),
		app.CreateCatchUpParcelCommandHandler(),
		app.CreateCatchUpOwnerParcelsCommandHandler(),
		app.CreateGetParcelHistoryQueryHandler(),
		app.CreateGetOwnerParcelsQueryHandler(),
		app.CreateGetRecentParcelsQueryHandler(),
		app.CreateGetPickupPointsQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
