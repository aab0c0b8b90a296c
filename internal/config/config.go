package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config regroupe toute la configuration du serveur, lue une seule fois au démarrage.
type Config struct {
	Env  string
	Port string

	DBDriver          string
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	RedisHost     string
	RedisPassword string

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	ScyllaHosts    []string
	ScyllaKeyspace string
	ScyllaUsername string
	ScyllaPassword string

	CORSOrigins []string
}

// Load charge le .env (s'il existe) puis lit l'environnement.
func Load() *Config {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
	return FromEnv()
}

// FromEnv construit la configuration sans toucher au .env.
func FromEnv() *Config {
	cfg := &Config{
		Env:  env("APP_ENV", "development"),
		Port: env("PORT", "8080"),

		DBDriver:          env("DB_DRIVER", "pgx"),
		DBMaxOpenConns:    intEnv("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns:    intEnv("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime: durationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),

		JWTSecret: env("JWT_SECRET", ""),
		JWTTTL:    durationEnv("JWT_TTL", 24*time.Hour),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ElasticURL:      os.Getenv("ELASTIC_URL"),
		ElasticUser:     os.Getenv("ELASTIC_USER"),
		ElasticPassword: os.Getenv("ELASTIC_PASSWORD"),

		MinIOEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinIOAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinIOBucket:    env("MINIO_BUCKET", "storefront-images"),
		MinIOUseSSL:    boolEnv("MINIO_USE_SSL", false),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: intEnv("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		ScyllaHosts:    listEnv("SCYLLA_HOSTS"),
		ScyllaKeyspace: os.Getenv("SCYLLA_AUDIT_KEYSPACE"),
		ScyllaUsername: os.Getenv("SCYLLA_USERNAME"),
		ScyllaPassword: os.Getenv("SCYLLA_PASSWORD"),

		CORSOrigins: listEnv("CORS_ORIGINS"),
	}
	cfg.DatabaseURL = databaseURL(cfg.DBDriver)
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}
	return cfg
}

// IsProduction indique si les détails d'erreurs internes doivent être masqués.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func databaseURL(driver string) string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	if driver == "sqlite3" {
		return env("DB_NAME", "storefront.db") + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=1"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		env("DB_USER", "postgres"),
		env("DB_PASSWORD", "postgres"),
		env("DB_HOST", "localhost"),
		env("DB_PORT", "5432"),
		env("DB_NAME", "storefront"),
		env("DB_SSLMODE", "disable"),
	)
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %d", key, v, fallback)
		return fallback
	}
	return n
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %s", key, v, fallback)
		return fallback
	}
	return d
}

func boolEnv(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func listEnv(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
