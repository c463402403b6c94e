package api

import "github.com/gin-gonic/gin"

// SetupRoutes wires all API endpoints onto the router.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/cities", handler.GetCities)
		api.DELETE("/cities/:slug", handler.RemoveCityData)

		api.POST("/refresh/:slug", handler.RefreshCity)

		api.GET("/listings/:slug", handler.GetListings)
		api.GET("/stats/:slug", handler.GetCityStats)
		api.GET("/snapshots/:slug", handler.GetPriceSnapshots)
		api.GET("/trend/:slug", handler.GetTrend)

		api.GET("/transactions/:slug", handler.GetTransactions)
		api.POST("/transactions/:slug", handler.AddTransaction)
		api.POST("/transactions/:slug/import", handler.ImportTransactions)
		api.DELETE("/transactions/:slug/:id", handler.DeleteTransaction)
	}
}
