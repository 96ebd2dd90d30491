package dependency

import (
	"customer-portal-svc/src/clients"
	"customer-portal-svc/src/internal/account"
	"customer-portal-svc/src/internal/cache"
	"customer-portal-svc/src/internal/config"
	"customer-portal-svc/src/internal/session"
	"customer-portal-svc/src/internal/webhook"

	"github.com/gin-gonic/gin"
)

type Manager struct {
	Router         *gin.Engine
	Config         *config.Configuration
	Mongodb        *clients.MongoDB
	Redis          *clients.RedisClient
	RabbitMQ       *clients.RabbitMQ
	IdentityClient *clients.IdentityClient
	Publisher      *clients.ActivityPublisher
	AccountHandler account.Handler
	SessionHandler session.Handler
	WebhookHandler webhook.Handler
}

func NewDependencyManager(router *gin.Engine,
	mongodb *clients.MongoDB,
	redisClient *clients.RedisClient,
	rabbitMQ *clients.RabbitMQ,
	cfg *config.Configuration) *Manager {
	identityClient := clients.NewIdentityClient(&cfg.ExternalServices.Identity)
	publisher := clients.NewActivityPublisher(rabbitMQ.Channel, &cfg.Queue.RabbitMQ)

	accountRepo := account.NewRepository(mongodb, cfg.Database.UserCollection)
	accountService := account.NewService(identityClient, accountRepo, publisher)
	accountHandler := account.NewHandler(cfg, accountService)

	stores := func(clientID string, scope cache.Scope) session.Store {
		return cache.NewStore(redisClient.Client, &cfg.Cache, clientID, scope)
	}
	auth := func(accessToken string) session.AuthBackend {
		return identityClient.ForToken(accessToken)
	}
	sessionHandler := session.NewHandler(cfg, stores, auth, publisher)

	webhookService := webhook.NewService(&cfg.Webhook, publisher)
	webhookHandler := webhook.NewHandler(cfg, webhookService)

	return &Manager{
		Router:         router,
		Config:         cfg,
		Mongodb:        mongodb,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		IdentityClient: identityClient,
		Publisher:      publisher,
		AccountHandler: accountHandler,
		SessionHandler: sessionHandler,
		WebhookHandler: webhookHandler,
	}
}
