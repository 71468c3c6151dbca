package main

import (
	"classifieds_service/internal/conversation/router"

	"github.com/gofiber/fiber/v2"
)

// 因拆分微服務。此程式用於init swagger
// swag init -g main.go -o ./cmd/chat_service/docs --parseDependency --parseInternal
func main() {
	// 创建 Fiber 应用
	app := fiber.New()

	// 注册路由
	router.RegisterRoutes(app, nil, nil)
}
