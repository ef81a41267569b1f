// Package router assembles the HTTP surface of the read API.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	dailyhandler "github.com/Aughra/picsou/internal/feature/dailysync/transport/handler"
	healthhandler "github.com/Aughra/picsou/internal/platform/http/handler"
	jwtmw "github.com/Aughra/picsou/internal/platform/jwt"
)

// Options configures NewRouter.
type Options struct {
	JWTSecret   string
	CORSOrigins []string // browser dashboards allowed to call the API; none when empty
	Checks      map[string]healthhandler.Checker
}

// NewRouter returns the engine serving /healthz and the token-protected /portfolio routes.
func NewRouter(daily *dailyhandler.DailyHandler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSOrigins,
			AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	health := healthhandler.Health(opts.Checks)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	auth := r.Group("/portfolio")
	auth.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		auth.GET("/daily", daily.ListDaily)
		auth.GET("/totals", daily.ListTotals)
		auth.GET("/assets/:symbol", daily.ListAsset)
		auth.GET("/positions", daily.ListPositions)
	}

	return r
}
