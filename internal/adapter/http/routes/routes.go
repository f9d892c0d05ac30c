package routes

import (
	"log"
	"net/http"

	"payments_adapter/internal/adapter/http/handlers"
	"payments_adapter/internal/adapter/http/middleware"
	"payments_adapter/pkg"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the handlers the router mounts.
type Dependencies struct {
	FrontendOrigin string
	OrderHandler   *handlers.OrderHandler
	HealthHandler  *handlers.HealthHandler
}

var errInternal = pkg.NewDomainErrorSimple("INTERNAL_ERROR", "An internal error occurred", http.StatusInternalServerError)

// NewRouter builds the gin engine with middlewares and every route registered.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, deps.FrontendOrigin)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addPingRoutes(router, deps.HealthHandler)

	api := router.Group("/api")
	addOrderRoutes(api, deps.OrderHandler)

	return router
}

func addPingRoutes(router *gin.Engine, h *handlers.HealthHandler) {
	router.GET("/ping", h.Ping)
	router.GET("/health", h.Health)
}

// setMiddlewares registers Metrics outside the recovery handler so requests that
// panic are still counted with the status recovery wrote.
func setMiddlewares(router *gin.Engine, frontendOrigin string) {
	router.Use(gin.Logger())
	router.Use(middleware.Metrics())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("[order][router] recovered from panic: %v", recovered)
		c.AbortWithStatusJSON(errInternal.HTTPStatus, errInternal.ToHTTPError())
	}))
	router.Use(middleware.CORS(frontendOrigin))
}
