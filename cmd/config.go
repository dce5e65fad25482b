package cmd

type Config struct {
	HTTPPort        string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSslMode       string
	PushRelayURL    string
	PushRelayKey    string
	EmailAPIURL     string
	EmailAPIKey     string
	EmailFrom       string
	WorkerID        string
	OutboxBatchSize int
}
