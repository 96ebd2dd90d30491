package server

import (
	"time"

	"customer-portal-svc/src/clients"
	"customer-portal-svc/src/internal/dependency"
	"customer-portal-svc/src/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(deps *dependency.Manager) {
	router := deps.Router
	router.Use(middleware.RequestLogger(), middleware.CORS())

	setupHealthEndpoint(deps)
	setupPublicRoutes(router, deps)
	setupAccountRoutes(router, deps)
	setupAdminRoutes(router, deps)
}

func setupHealthEndpoint(deps *dependency.Manager) {
	router := deps.Router
	cfg := deps.Config

	router.GET("/health", func(c *gin.Context) {
		log.Debug("Health check endpoint requested")

		c.JSON(200, gin.H{
			"status":    "ok",
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"mongodb":   getStatus(isMongoConnected(deps.Mongodb, c)),
			"redis":     getStatus(isRedisConnected(deps.Redis, c)),
			"rabbitmq":  getStatus(isRabbitConnected(deps.RabbitMQ)),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}

func setupPublicRoutes(router *gin.Engine, deps *dependency.Manager) {
	router.GET("/api/v1/status", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"api_version": "v1",
			"status":      "operational",
			"service":     deps.Config.App.Name,
		})
	})

	sessionHandler := deps.SessionHandler
	sessions := router.Group("/api/v1/session")
	{
		sessions.POST("/check", setRouteName("checkSession"), sessionHandler.Check)
		sessions.GET("/state/:key", setRouteName("getState"), sessionHandler.GetState)
		sessions.PUT("/state/:key", setRouteName("putState"), sessionHandler.PutState)
	}

	router.POST("/api/v1/webhooks/receive", setRouteName("receiveWebhook"), deps.WebhookHandler.Receive)
}

func setupAccountRoutes(router *gin.Engine, deps *dependency.Manager) {
	authMiddleware := middleware.NewAuthMiddleware(deps.Config.Security.JwtKey)

	router.DELETE("/api/v1/account",
		setRouteName("deleteOwnAccount"),
		authMiddleware.RequireAuth(),
		deps.AccountHandler.DeleteOwnAccount)
}

func setupAdminRoutes(router *gin.Engine, deps *dependency.Manager) {
	authMiddleware := middleware.NewAuthMiddleware(deps.Config.Security.JwtKey)

	// Apply route name FIRST, then auth middlewares
	admin := router.Group("/api/v1/admin")
	{
		admin.DELETE("/users/:id",
			setRouteName("deleteUser"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdminRights(),
			deps.AccountHandler.DeleteUser)

		admin.POST("/webhooks/test",
			setRouteName("replayTestWebhook"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdminRights(),
			deps.WebhookHandler.ReplayTest)
	}
}

func setRouteName(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("route_name", name)
		c.Next()
	}
}

func isMongoConnected(mongodb *clients.MongoDB, c *gin.Context) bool {
	return mongodb != nil && mongodb.Client != nil && mongodb.Client.Ping(c.Request.Context(), nil) == nil
}

func isRedisConnected(redisClient *clients.RedisClient, c *gin.Context) bool {
	return redisClient != nil && redisClient.Client != nil && redisClient.Client.Ping(c.Request.Context()).Err() == nil
}

func isRabbitConnected(rabbitMQ *clients.RabbitMQ) bool {
	return rabbitMQ != nil && rabbitMQ.Conn != nil && !rabbitMQ.Conn.IsClosed()
}

func getStatus(b bool) string {
	if b {
		return "connected"
	}
	return "disconnected"
}
