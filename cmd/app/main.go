package main

import (
	"fmt"
	"os"
	"time"

	"logistics/cmd"
	adapterhttp "logistics/internal/adapters/in/http"
	"logistics/internal/adapters/out/postgres/collaboratorrepo"
	"logistics/internal/adapters/out/postgres/orderrepo"
	"logistics/internal/adapters/out/postgres/outboxrepo"
	"logistics/internal/adapters/out/postgres/subscriptionrepo"
	"logistics/internal/jobs"

	"github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const defaultOutboxBatchSize = 50

func main() {
	configs := getConfigs()

	db, err := connectDB(configs)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, db)

	jobManager := jobs.NewJobManager(
		app.CreateProcessOutboxCommandHandler(),
		configs.WorkerID,
		configs.OutboxBatchSize,
		app.Logger(),
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:        goDotEnvVariable("HTTP_PORT"),
		DBHost:          goDotEnvVariable("DB_HOST"),
		DBPort:          goDotEnvVariable("DB_PORT"),
		DBUser:          goDotEnvVariable("DB_USER"),
		DBPassword:      goDotEnvVariable("DB_PASSWORD"),
		DBName:          goDotEnvVariable("DB_NAME"),
		DBSslMode:       goDotEnvVariable("DB_SSLMODE"),
		PushRelayURL:    goDotEnvVariable("PUSH_RELAY_URL"),
		PushRelayKey:    goDotEnvVariable("PUSH_RELAY_KEY"),
		EmailAPIURL:     goDotEnvVariable("EMAIL_API_URL"),
		EmailAPIKey:     goDotEnvVariable("EMAIL_API_KEY"),
		EmailFrom:       goDotEnvVariable("EMAIL_FROM"),
		WorkerID:        goDotEnvVariable("WORKER_ID"),
		OutboxBatchSize: defaultOutboxBatchSize,
	}

	if config.WorkerID == "" {
		hostname, _ := os.Hostname()
		config.WorkerID = hostname
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

// connectDB opens the gorm connection, retrying with exponential backoff so
// the service survives the database coming up after it in orchestration.
func connectDB(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	var db *gorm.DB

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 2 * time.Minute

	err := backoff.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
		return openErr
	}, policy)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&outboxrepo.EntryDTO{},
		&outboxrepo.HeartbeatDTO{},
		&subscriptionrepo.SubscriptionDTO{},
		&collaboratorrepo.CollaboratorDTO{},
	)
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := adapterhttp.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateAcceptOrderCommandHandler(),
		app.CreateTransitionOrderCommandHandler(),
		app.CreateCancelActiveJobCommandHandler(),
		app.CreateSetOrderAmountCommandHandler(),
		app.CreateRegisterSubscriptionCommandHandler(),
		app.CreateGetAllowedStatusesQueryHandler(),
		app.CreateGetUndeliveredOrdersQueryHandler(),
		app.CreateGetOutboxBacklogQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
