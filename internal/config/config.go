package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Sendgrid  SendgridConfig  `yaml:"sendgrid"`
	Log       LogConfig       `yaml:"log"`
	Booking   BookingConfig   `yaml:"booking"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// SendgridConfig contains email delivery settings
type SendgridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// BookingConfig contains the reservation engine's policy limits and fee
// defaults. Amounts are integer cents; percentages are basis points.
type BookingConfig struct {
	MinBookingNights           int32 `yaml:"min_booking_nights"`
	MaxBookingNights           int32 `yaml:"max_booking_nights"`
	MinAdvanceBookingDays      int32 `yaml:"min_advance_booking_days"`
	MaxAdvanceBookingDays      int32 `yaml:"max_advance_booking_days"`
	MaxGuestsPerBooking        int32 `yaml:"max_guests_per_booking"`
	DefaultServiceFeeBps       int32 `yaml:"default_service_fee_bps"`
	DefaultCleaningFeeCents    int64 `yaml:"default_cleaning_fee_cents"`
	AutoApprovalThresholdCents int64 `yaml:"auto_approval_threshold_cents"`
	EnableInstantBooking       bool  `yaml:"enable_instant_booking"`
	EnableAutoPayment          bool  `yaml:"enable_auto_payment"`
	ConfirmationTimeoutHours   int32 `yaml:"confirmation_timeout_hours"`
	PaymentTimeoutMinutes      int32 `yaml:"payment_timeout_minutes"`
	ModificationDeadlineHours  int32 `yaml:"modification_deadline_hours"`
}

// ConfirmationTimeout returns the window a PENDING booking has before the
// expiration sweep cancels it.
func (b BookingConfig) ConfirmationTimeout() time.Duration {
	return time.Duration(b.ConfirmationTimeoutHours) * time.Hour
}

// PaymentTimeout returns the window an auto-payment has to succeed.
func (b BookingConfig) PaymentTimeout() time.Duration {
	return time.Duration(b.PaymentTimeoutMinutes) * time.Minute
}

// ModificationDeadline returns how long before check-in date changes close.
func (b BookingConfig) ModificationDeadline() time.Duration {
	return time.Duration(b.ModificationDeadlineHours) * time.Hour
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpireUnconfirmedBookings string `yaml:"expire_unconfirmed_bookings"`
	ExpireUnpaidBookings      string `yaml:"expire_unpaid_bookings"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Sendgrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Sendgrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM_EMAIL"); val != "" {
		c.Sendgrid.FromEmail = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and applies defaults for
// optional settings.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Booking defaults
	b := &c.Booking
	if b.MinBookingNights == 0 {
		b.MinBookingNights = 1
	}
	if b.MaxBookingNights == 0 {
		b.MaxBookingNights = 30
	}
	if b.MaxAdvanceBookingDays == 0 {
		b.MaxAdvanceBookingDays = 365
	}
	if b.MaxGuestsPerBooking == 0 {
		b.MaxGuestsPerBooking = 16
	}
	if b.DefaultServiceFeeBps == 0 {
		b.DefaultServiceFeeBps = 1200 // 12%
	}
	if b.AutoApprovalThresholdCents == 0 {
		b.AutoApprovalThresholdCents = 100000 // $1,000.00
	}
	if b.ConfirmationTimeoutHours == 0 {
		b.ConfirmationTimeoutHours = 24
	}
	if b.PaymentTimeoutMinutes == 0 {
		b.PaymentTimeoutMinutes = 30
	}
	if b.ModificationDeadlineHours == 0 {
		b.ModificationDeadlineHours = 48
	}
	if b.MinBookingNights > b.MaxBookingNights {
		return fmt.Errorf("min_booking_nights %d exceeds max_booking_nights %d", b.MinBookingNights, b.MaxBookingNights)
	}
	if b.MinAdvanceBookingDays > b.MaxAdvanceBookingDays {
		return fmt.Errorf("min_advance_booking_days %d exceeds max_advance_booking_days %d", b.MinAdvanceBookingDays, b.MaxAdvanceBookingDays)
	}

	// Scheduler defaults
	if c.Scheduler.ExpireUnconfirmedBookings == "" {
		c.Scheduler.ExpireUnconfirmedBookings = "0 */10 * * * *" // every 10 minutes
	}
	if c.Scheduler.ExpireUnpaidBookings == "" {
		c.Scheduler.ExpireUnpaidBookings = "0 */5 * * * *" // every 5 minutes
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
