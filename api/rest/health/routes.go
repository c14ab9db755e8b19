package health

import "github.com/gin-gonic/gin"

// registers the liveness and readiness routes
func RegisterRoutes(router gin.IRoutes, service string, store Pinger, consumer ConsumerStatus) {
	router.GET("/", RootHandler(service))
	router.GET("/health", Handler(service, store, consumer))
}
