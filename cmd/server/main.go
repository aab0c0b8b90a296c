package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/routes"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/utils"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET manquant dans .env")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	conns, err := database.ConnectDatabases(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ Connexion aux bases impossible: %v", err)
	}
	defer conns.Close()

	store := database.NewStore(conns.SQL)
	auditor := newAuditor(conns)

	h := handlers.New(handlers.Deps{
		Store:   store,
		Cache:   cache.NewProductCache(conns.Redis),
		Search:  services.NewSearchIndex(conns.Elastic),
		Images:  services.NewImageStorage(conns.MinIO, cfg.MinIOBucket),
		Mailer:  utils.NewMailer(cfg),
		Auditor: auditor,
		Config:  cfg,
	})

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	routes.RegisterRoutes(r, h, routes.Security{
		Store:        store,
		JWTSecret:    cfg.JWTSecret,
		LoginLimiter: cache.NewLimiter(conns.Redis, "login", middleware.LoginMaxAttempts, middleware.LoginCooldown),
		Auditor:      auditor,
	})

	log.Println("🚀 Serveur storefront lancé sur le port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Arrêt du serveur: %v", err)
	}
}

// newAuditor écrit dans ScyllaDB quand la session existe, sinon dans les logs.
func newAuditor(conns *database.Connections) *utils.Auditor {
	if conns.Scylla == nil {
		return utils.NewAuditor(nil)
	}
	sink, err := utils.NewScyllaAuditSink(conns.Scylla)
	if err != nil {
		log.Printf("⚠️ Audit ScyllaDB indisponible, repli sur les logs: %v", err)
		return utils.NewAuditor(nil)
	}
	return utils.NewAuditor(sink)
}
