package config

import (
	"os"

	pkgcfg "github.com/Skotchmaster/restaurant_admin/pkg/config"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte

	CORSOrigins []string

	KafkaBrokers []string
	MenuTopic    string
	OrderTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	AdminUsername string
	AdminPassword string
}

func Load() Config {
	return Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "restaurant"),
		ServerPort:  pkgcfg.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),

		CORSOrigins: pkgcfg.CSV(pkgcfg.EnvDefault("CORS_ORIGINS", "http://localhost:3000")),

		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),
		MenuTopic:    pkgcfg.EnvDefault("KAFKA_MENU_TOPIC", "menu_events"),
		OrderTopic:   pkgcfg.EnvDefault("KAFKA_ORDER_TOPIC", "order_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    pkgcfg.EnvDefault("ES_INDEX", "menus"),

		AdminUsername: pkgcfg.EnvDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: pkgcfg.EnvDefault("ADMIN_PASSWORD", "admin123"),
	}
}
