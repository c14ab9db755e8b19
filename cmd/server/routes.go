package main

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/lumina/server/api/rest/documents"
	"codeberg.org/lumina/server/api/rest/health"
	"codeberg.org/lumina/server/api/rest/query"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config.CORSOrigins))

	health.RegisterRoutes(router, server.config.ServiceName, server.store, server.consumer)
	query.RegisterRoutes(router, server.services.Retriever)
	documents.RegisterRoutes(router, server.store)
}
