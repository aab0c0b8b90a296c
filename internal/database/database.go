package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"storefront_back_end/internal/config"
)

// Connections regroupe les clients ouverts au démarrage.
// Seule la base relationnelle est obligatoire ; les autres restent nil si non configurés.
type Connections struct {
	SQL     *sqlx.DB
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
	Scylla  *gocql.Session
}

// ConnectDatabases ouvre toutes les connexions décrites par la configuration.
func ConnectDatabases(ctx context.Context, cfg *config.Config) (*Connections, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// 1. Base relationnelle
	db, err := OpenSQL(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	conns := &Connections{SQL: db}

	// 2. Redis
	conns.Redis = connectRedis(ctx, cfg)

	// 3. Elasticsearch
	conns.Elastic = connectElastic(cfg)

	// 4. MinIO
	conns.MinIO = connectMinIO(ctx, cfg)

	// 5. ScyllaDB (journal d'audit)
	conns.Scylla = connectScylla(cfg)

	log.Println("✅ Toutes les bases de données sont connectées")
	return conns, nil
}

// Close ferme tout ce qui a été ouvert.
func (c *Connections) Close() {
	if c.Scylla != nil {
		c.Scylla.Close()
		log.Println("🔌 Session ScyllaDB fermée")
	}
	if c.Redis != nil {
		c.Redis.Close()
	}
	if c.SQL != nil {
		c.SQL.Close()
	}
}

// =============================================
// BASE RELATIONNELLE (Postgres via pgx, SQLite en local)
// =============================================

// OpenSQL ouvre le pool et vérifie la connexion.
func OpenSQL(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ouverture base %s: %w", cfg.DBDriver, err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping base %s: %w", cfg.DBDriver, err)
	}

	log.Printf("✅ Connecté à la base relationnelle (%s)", cfg.DBDriver)
	return db, nil
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisHost == "" {
		log.Println("⚠️ REDIS_HOST non configuré, cache et rate limit désactivés")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("❌ Erreur connexion Redis (%v), cache désactivé", err)
		client.Close()
		return nil
	}
	log.Println("✅ Connecté à Redis")
	return client
}

// =============================================
// ELASTICSEARCH
// =============================================
func connectElastic(cfg *config.Config) *elasticsearch.Client {
	if cfg.ElasticURL == "" {
		log.Println("⚠️ ELASTIC_URL non configuré, recherche SQL uniquement")
		return nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		log.Println("❌ Erreur création client Elasticsearch:", err)
		return nil
	}

	res, err := client.Info()
	if err != nil {
		log.Println("❌ Erreur connexion Elasticsearch:", err)
		return nil
	}
	defer res.Body.Close()

	log.Println("✅ Connecté à Elasticsearch")
	return client
}

// =============================================
// MINIO
// =============================================
func connectMinIO(ctx context.Context, cfg *config.Config) *minio.Client {
	if cfg.MinIOEndpoint == "" {
		log.Println("⚠️ MINIO_ENDPOINT non configuré, upload d'images désactivé")
		return nil
	}

	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		log.Println("❌ Erreur connexion MinIO:", err)
		return nil
	}

	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		log.Println("❌ Erreur vérification bucket MinIO:", err)
		return nil
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			log.Println("❌ Erreur création bucket MinIO:", err)
			return nil
		}
		log.Println("🪣 Bucket créé :", cfg.MinIOBucket)
	} else {
		log.Println("🪣 Bucket MinIO déjà présent :", cfg.MinIOBucket)
	}

	log.Println("✅ Connecté à MinIO :", cfg.MinIOEndpoint)
	return client
}

// =============================================
// SCYLLA DB (audit)
// =============================================
func connectScylla(cfg *config.Config) *gocql.Session {
	if len(cfg.ScyllaHosts) == 0 || cfg.ScyllaKeyspace == "" {
		log.Println("⚠️ ScyllaDB non configuré, audit écrit dans les logs")
		return nil
	}

	cluster := gocql.NewCluster(cfg.ScyllaHosts...)
	cluster.Keyspace = cfg.ScyllaKeyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 5 * time.Second
	cluster.NumConns = 4
	cluster.ReconnectInterval = 1 * time.Second
	if cfg.ScyllaUsername != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.ScyllaUsername,
			Password: cfg.ScyllaPassword,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	session, err := cluster.CreateSession()
	if err != nil {
		log.Printf("❌ Erreur création session ScyllaDB pour %s: %v", cfg.ScyllaKeyspace, err)
		return nil
	}
	log.Printf("✅ Session ScyllaDB ouverte pour keyspace '%s'", cfg.ScyllaKeyspace)
	return session
}
