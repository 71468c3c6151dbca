package router

import (
	"context"

	"classifieds_service/internal/api/handlers"
	"classifieds_service/internal/conversation/app"
	"classifieds_service/pkg/metrics"
	"classifieds_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes 注册 chat service 路由
// @title Classifieds Chat Service API
// @version 1.0
// @description Buyer / seller conversations about listings
// @host localhost:8082
// @BasePath /
func RegisterRoutes(r *fiber.App, httpHandler *app.HTTPHandler, chatWebsocket *app.ChatWebsocketHandler) {
	r.Use(metrics.FiberMiddleware())

	r.Get("/", handlers.ConnectCheck)
	r.Post("/debug", handlers.DebugLogFlag)
	r.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	r.Get("/swagger/*", swagger.HandlerDefault)

	api := r.Group("/api", middlewares.JWTMiddleware())
	api.Post("/conversations", httpHandler.CreateConversation)
	api.Get("/conversations", httpHandler.ListConversations)
	api.Get("/conversations/listing/:listingID/:otherUserID", httpHandler.GetThread)
	api.Get("/conversations/:id", httpHandler.GetConversation)
	api.Post("/messages", httpHandler.SendMessage)
	api.Patch("/messages/:id", httpHandler.UpdateMessage)

	r.Use("/ws", middlewares.JWTMiddleware(), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		chatWebsocket.HandleConnection(context.Background(), c)
	}))
}
