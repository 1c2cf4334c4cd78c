package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/mooehassan23-rgb/Loopin/api/middleware"
	"github.com/mooehassan23-rgb/Loopin/api/routes"
	"github.com/mooehassan23-rgb/Loopin/config"
	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	err = db.ConnectDB()
	if err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}
	if err := db.Migrate(db.ORM); err != nil {
		panic("Failed to run migrations: " + err.Error())
	}

	if err := services.InitStorage(); err != nil {
		panic("Failed to init storage: " + err.Error())
	}

	// Redis и RabbitMQ не обязательны: без них лента идет напрямую в БД,
	// а realtime-события доставляются только локальным WS-соединениям
	if err := services.InitRedis(); err != nil {
		log.Println("Redis unavailable, feed cache and queue disabled:", err)
	}
	if err := services.InitRabbitMQ(); err != nil {
		log.Println("RabbitMQ unavailable, realtime events fall back to direct WS:", err)
	} else {
		if err := services.StartEventConsumer(context.Background()); err != nil {
			log.Println("Failed to start event consumer:", err)
		}
	}
	if services.QueueServiceInstance != nil {
		services.QueueServiceInstance.StartWorkers(context.Background())
	}

	router := gin.Default()
	router.Use(middleware.PrometheusMiddleware("loopin"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static("/media", services.Storage.Root())

	routes.PublicApi(router)
	routes.ProtectedApi(router)

	addr := fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
