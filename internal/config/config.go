package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServiceConfig holds all configuration for the checkout service.
type ServiceConfig struct {
	Port              string
	AppEnv            string
	HTTPClientTimeout time.Duration
	CORSOrigins       []string

	// AdminToken guards the fallback inspection routes; empty disables them.
	AdminToken string

	MapsConfig   MapsConfig
	PayPalConfig PayPalConfig
	MailConfig   MailConfig
	BankConfig   BankConfig
	DBConfig     DatabaseConfig
	RedisConfig  RedisConfig
	KafkaConfig  KafkaConfig
}

// MapsConfig configures the places and routes provider.
type MapsConfig struct {
	APIKey string
	// TextFallback enables the approximate formatted-address country match
	// for places that come back without address components.
	TextFallback bool
}

// PayPalConfig configures the hosted payment provider.
type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Environment  string
}

// Configured reports whether server-side PayPal calls are possible.
func (c PayPalConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// MailConfig configures SMTP delivery and the business mailboxes.
type MailConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	BusinessTo string
	BusinessCC string
}

// Configured reports whether SMTP credentials are present.
func (c MailConfig) Configured() bool {
	return c.Host != "" && c.User != "" && c.Password != ""
}

// BankConfig holds the transfer details printed in manual-payment instructions.
type BankConfig struct {
	Recipient string
	IBAN      string
	BIC       string
	Phone     string
}

// DatabaseConfig configures the optional notification fallback store.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether a database host has been supplied.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig configures the optional lookup cache.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a Redis address has been supplied.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// KafkaConfig configures the optional checkout event publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether at least one broker has been supplied.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

// Load reads configuration from an optional .env file and CHECKOUT_* environment variables.
func Load() (*ServiceConfig, error) {
	// A missing .env is the normal production case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CHECKOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("service_port", "8080")
	v.SetDefault("http_client_timeout", "10s")
	v.SetDefault("cors_allowed_origins", "http://localhost:3000")
	v.SetDefault("admin_token", "")

	v.SetDefault("maps_api_key", "")
	v.SetDefault("places_text_fallback", false)

	v.SetDefault("paypal_client_id", "")
	v.SetDefault("paypal_client_secret", "")
	v.SetDefault("paypal_env", "sandbox")

	v.SetDefault("smtp_host", "mail.privateemail.com")
	v.SetDefault("smtp_port", 465)
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_password", "")
	v.SetDefault("mail_from", "")
	v.SetDefault("mail_business_to", "")
	v.SetDefault("mail_business_cc", "")

	v.SetDefault("bank_recipient", "Transport Online Handel")
	v.SetDefault("bank_iban", "DE76 7002 0270 0045 0809 78")
	v.SetDefault("bank_bic", "HYVEDEMMXXX")
	v.SetDefault("bank_phone", "+49 152 13550785")

	v.SetDefault("db_host", "")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "checkout")
	v.SetDefault("db_sslmode", "disable")

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_username", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_ttl", "15m")

	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_topic", "checkout.events")
}

func fromViper(v *viper.Viper) (*ServiceConfig, error) {
	if v.GetDuration("http_client_timeout") <= 0 {
		return nil, fmt.Errorf("http client timeout must be positive, got %q", v.GetString("http_client_timeout"))
	}
	env := v.GetString("paypal_env")
	if env != "sandbox" && env != "live" {
		return nil, fmt.Errorf("paypal environment must be sandbox or live, got %q", env)
	}

	port := v.GetString("service_port")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	mailFrom := v.GetString("mail_from")
	if mailFrom == "" {
		mailFrom = v.GetString("smtp_user")
	}

	return &ServiceConfig{
		Port:              port,
		AppEnv:            v.GetString("app_env"),
		HTTPClientTimeout: v.GetDuration("http_client_timeout"),
		CORSOrigins:       splitList(v.GetString("cors_allowed_origins")),
		AdminToken:        v.GetString("admin_token"),
		MapsConfig: MapsConfig{
			APIKey:       v.GetString("maps_api_key"),
			TextFallback: v.GetBool("places_text_fallback"),
		},
		PayPalConfig: PayPalConfig{
			ClientID:     v.GetString("paypal_client_id"),
			ClientSecret: v.GetString("paypal_client_secret"),
			Environment:  env,
		},
		MailConfig: MailConfig{
			Host:       v.GetString("smtp_host"),
			Port:       v.GetInt("smtp_port"),
			User:       v.GetString("smtp_user"),
			Password:   v.GetString("smtp_password"),
			From:       mailFrom,
			BusinessTo: v.GetString("mail_business_to"),
			BusinessCC: v.GetString("mail_business_cc"),
		},
		BankConfig: BankConfig{
			Recipient: v.GetString("bank_recipient"),
			IBAN:      v.GetString("bank_iban"),
			BIC:       v.GetString("bank_bic"),
			Phone:     v.GetString("bank_phone"),
		},
		DBConfig: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetString("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		RedisConfig: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Username: v.GetString("redis_username"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
			TTL:      v.GetDuration("redis_ttl"),
		},
		KafkaConfig: KafkaConfig{
			Brokers: splitList(v.GetString("kafka_brokers")),
			Topic:   v.GetString("kafka_topic"),
		},
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
