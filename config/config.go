package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	MongoURI string
	MongoDB  string

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	RateLimitRPS   float64
	RateLimitBurst int

	ConsulEnabled bool
	ConsulAddr    string
	ServiceName   string
	ServiceHost   string

	FirebaseCredentialsFile string
	NotifyCron              string
	NotifyLeadMinutes       int
	NotifyTimezone          string

	HolidayEmoji string
}

// LoadConfig reads configuration from the environment and, when present,
// a config.yaml in the working directory. Environment variables win.
func LoadConfig() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	_ = v.ReadInConfig()

	return &Config{
		Port:     v.GetString("PORT"),
		MongoURI: v.GetString("MONGO_URI"),
		MongoDB:  v.GetString("MONGO_DB"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTTTL:    v.GetDuration("JWT_TTL"),

		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFile:       v.GetString("LOG_FILE"),
		LogMaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
		LogMaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		LogMaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),

		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),

		ConsulEnabled: v.GetBool("CONSUL_ENABLED"),
		ConsulAddr:    v.GetString("CONSUL_ADDR"),
		ServiceName:   v.GetString("SERVICE_NAME"),
		ServiceHost:   v.GetString("SERVICE_HOST"),

		FirebaseCredentialsFile: v.GetString("FIREBASE_CREDENTIALS_FILE"),
		NotifyCron:              v.GetString("NOTIFY_CRON"),
		NotifyLeadMinutes:       v.GetInt("NOTIFY_LEAD_MINUTES"),
		NotifyTimezone:          v.GetString("NOTIFY_TIMEZONE"),

		HolidayEmoji: v.GetString("HOLIDAY_EMOJI"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "agenda")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "logs/agenda-service.log")
	v.SetDefault("LOG_MAX_SIZE_MB", 50)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("CONSUL_ENABLED", false)
	v.SetDefault("CONSUL_ADDR", "localhost:8500")
	v.SetDefault("SERVICE_NAME", "agenda-service")
	v.SetDefault("SERVICE_HOST", "localhost")
	v.SetDefault("NOTIFY_CRON", "0 */1 * * * *")
	v.SetDefault("NOTIFY_LEAD_MINUTES", 15)
	v.SetDefault("NOTIFY_TIMEZONE", "Europe/Paris")
	v.SetDefault("HOLIDAY_EMOJI", "🇫🇷")
}
