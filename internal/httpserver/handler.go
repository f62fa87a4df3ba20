package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"quality-agent/internal/middleware"
	"quality-agent/internal/model"
	webhookHTTP "quality-agent/internal/webhook/delivery/http"
)

// githubOrigin is the only origin allowed to call the API from a browser.
const githubOrigin = "https://github.com"

func (srv HTTPServer) mapHandlers() error {
	mw := middleware.New(srv.l, []string{githubOrigin})

	srv.registerMiddlewares(mw)
	srv.registerSystemRoutes()

	if err := srv.registerDomainRoutes(); err != nil {
		return err
	}

	return nil
}

func (srv HTTPServer) registerMiddlewares(mw middleware.Middleware) {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(mw.RequestLogger())
	srv.gin.Use(mw.Cors())

	ctx := context.Background()
	if srv.isProduction() {
		srv.l.Infof(ctx, "CORS mode: production")
	} else {
		srv.l.Infof(ctx, "CORS mode: %s", srv.environment)
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/", srv.rootInfo)
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	if srv.metricsHandler != nil {
		srv.gin.GET("/metrics", gin.WrapH(srv.metricsHandler))
	}

	if !srv.isProduction() {
		srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("doc.json"),
			ginSwagger.DefaultModelsExpandDepth(-1),
		))
	}
}

// registerDomainRoutes registers all domain routes.
func (srv HTTPServer) registerDomainRoutes() error {
	webhookHTTP.RegisterRoutes(srv.gin, srv.webhookHandler)
	srv.l.Infof(context.Background(), "GitHub webhook route registered at POST /webhook/github")
	return nil
}

func (srv HTTPServer) isProduction() bool {
	return srv.environment == string(model.EnvironmentProduction)
}
