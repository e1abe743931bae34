package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// GraphQLPaths are the paths the GraphQL endpoint is mounted on
var GraphQLPaths = []string{"/graphql", "/api/graphql"}

// Routes collects what SetupRoutes wires onto the router
type Routes struct {
	GraphQL *GraphQLController
	Health  *HealthController
	// Session runs before every GraphQL request
	Session gin.HandlerFunc
}

// SetupRoutes defines the routes for the Gin router
func SetupRoutes(router *gin.Engine, r Routes) {
	router.GET("/", r.Health.Root)
	router.GET("/health", r.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/")
	api.Use(r.Session)
	for _, path := range GraphQLPaths {
		api.POST(path, r.GraphQL.Execute)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
