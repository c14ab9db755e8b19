package query

import "github.com/gin-gonic/gin"

// registers the query route
func RegisterRoutes(router gin.IRoutes, svc Querier) {
	router.POST("/query", Handler(svc))
}
