package documents

import "github.com/gin-gonic/gin"

func RegisterRoutes(router gin.IRoutes, store Lister) {
	router.GET("/documents", ListHandler(store))
}
