package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Storage   StorageConfig
	Ledger    LedgerConfig
	Analytics AnalyticsConfig
	Drive     DriveConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port           string
	AdminPort      string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN returns URL when set, otherwise a key/value connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// PoolURL returns a postgres:// URL accepted by pgxpool.
func (c DatabaseConfig) PoolURL() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	LedgerTTLSeconds int
	KeyPrefix        string
	ScanBatchSize    int
}

type StorageConfig struct {
	Driver    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
}

// LedgerConfig selects where the sales ledger is read from: "file" or "postgres".
type LedgerConfig struct {
	Source  string
	Path    string
	DataDir string
}

// AnalyticsConfig holds the default what-if parameters of the dashboard.
type AnalyticsConfig struct {
	ForecastWindow int
	OrderCost      float64
	HoldingCost    float64
	LeadTimeDays   float64
	ServiceZ       float64
	UnderstockCost float64
	OverstockCost  float64
	RiskWindow     int
	RiskMinPeriods int
	RiskLimit      int
}

// InventoryParams returns the inventory-model slice of the config.
func (c AnalyticsConfig) InventoryParams() domain.InventoryParams {
	return domain.InventoryParams{
		OrderCost:      c.OrderCost,
		HoldingCost:    c.HoldingCost,
		LeadTimeDays:   c.LeadTimeDays,
		ServiceZ:       c.ServiceZ,
		UnderstockCost: c.UnderstockCost,
		OverstockCost:  c.OverstockCost,
	}
}

type DriveConfig struct {
	CredentialsFile string
	FolderID        string
	FolderPath      string
}

type LogConfig struct {
	Level  string
	Format string
}

var (
	once     sync.Once
	instance *Config
)

// Load reads .env and the environment once and returns the shared config.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults()
		viper.AutomaticEnv()

		instance = read()
		ensureDir(instance.Ledger.DataDir)
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ADMIN_PORT", "8081")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "inventory")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_LEDGER_TTL_SECONDS", 300)
	viper.SetDefault("CACHE_KEY_PREFIX", "ledger:records")
	viper.SetDefault("CACHE_SCAN_BATCH_SIZE", 100)

	viper.SetDefault("STORAGE_DRIVER", "minio")
	viper.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	viper.SetDefault("STORAGE_ACCESS_KEY", "")
	viper.SetDefault("STORAGE_SECRET_KEY", "")
	viper.SetDefault("STORAGE_BUCKET", "ledgers")
	viper.SetDefault("STORAGE_REGION", "us-east-1")
	viper.SetDefault("STORAGE_PREFIX", "")
	viper.SetDefault("STORAGE_USE_SSL", false)

	viper.SetDefault("LEDGER_SOURCE", "file")
	viper.SetDefault("LEDGER_PATH", "./data/sales_data.csv")
	viper.SetDefault("LEDGER_DATA_DIR", "./data")

	viper.SetDefault("FORECAST_WINDOW", 7)
	viper.SetDefault("EOQ_ORDER_COST", 100.0)
	viper.SetDefault("EOQ_HOLDING_COST", 5.0)
	viper.SetDefault("ROP_LEAD_TIME_DAYS", 7.0)
	viper.SetDefault("ROP_SERVICE_Z", 1.65)
	viper.SetDefault("NEWSVENDOR_UNDERSTOCK_COST", 10.0)
	viper.SetDefault("NEWSVENDOR_OVERSTOCK_COST", 5.0)
	viper.SetDefault("RISK_WINDOW", 14)
	viper.SetDefault("RISK_MIN_PERIODS", 3)
	viper.SetDefault("RISK_LIMIT", 20)

	viper.SetDefault("DRIVE_CREDENTIALS_FILE", "")
	viper.SetDefault("DRIVE_FOLDER_ID", "")
	viper.SetDefault("DRIVE_FOLDER_PATH", "")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
}

func read() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			AdminPort:      viper.GetString("ADMIN_PORT"),
			Mode:           viper.GetString("SERVER_MODE"),
			ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			URL:          viper.GetString("DATABASE_URL"),
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			DBName:       viper.GetString("DB_NAME"),
			SSLMode:      viper.GetString("DB_SSLMODE"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Cache: CacheConfig{
			Enabled:          viper.GetBool("CACHE_ENABLED"),
			RedisURL:         viper.GetString("REDIS_URL"),
			RedisHost:        viper.GetString("REDIS_HOST"),
			RedisPort:        viper.GetString("REDIS_PORT"),
			RedisPassword:    viper.GetString("REDIS_PASSWORD"),
			RedisDB:          viper.GetInt("REDIS_DB"),
			LedgerTTLSeconds: viper.GetInt("CACHE_LEDGER_TTL_SECONDS"),
			KeyPrefix:        viper.GetString("CACHE_KEY_PREFIX"),
			ScanBatchSize:    viper.GetInt("CACHE_SCAN_BATCH_SIZE"),
		},
		Storage: StorageConfig{
			Driver:    viper.GetString("STORAGE_DRIVER"),
			Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
			AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
			Bucket:    viper.GetString("STORAGE_BUCKET"),
			Region:    viper.GetString("STORAGE_REGION"),
			Prefix:    viper.GetString("STORAGE_PREFIX"),
			UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
		},
		Ledger: LedgerConfig{
			Source:  viper.GetString("LEDGER_SOURCE"),
			Path:    viper.GetString("LEDGER_PATH"),
			DataDir: viper.GetString("LEDGER_DATA_DIR"),
		},
		Analytics: AnalyticsConfig{
			ForecastWindow: viper.GetInt("FORECAST_WINDOW"),
			OrderCost:      viper.GetFloat64("EOQ_ORDER_COST"),
			HoldingCost:    viper.GetFloat64("EOQ_HOLDING_COST"),
			LeadTimeDays:   viper.GetFloat64("ROP_LEAD_TIME_DAYS"),
			ServiceZ:       viper.GetFloat64("ROP_SERVICE_Z"),
			UnderstockCost: viper.GetFloat64("NEWSVENDOR_UNDERSTOCK_COST"),
			OverstockCost:  viper.GetFloat64("NEWSVENDOR_OVERSTOCK_COST"),
			RiskWindow:     viper.GetInt("RISK_WINDOW"),
			RiskMinPeriods: viper.GetInt("RISK_MIN_PERIODS"),
			RiskLimit:      viper.GetInt("RISK_LIMIT"),
		},
		Drive: DriveConfig{
			CredentialsFile: viper.GetString("DRIVE_CREDENTIALS_FILE"),
			FolderID:        viper.GetString("DRIVE_FOLDER_ID"),
			FolderPath:      viper.GetString("DRIVE_FOLDER_PATH"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
	}
}

func ensureDir(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
