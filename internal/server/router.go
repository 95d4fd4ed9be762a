package server

import (
	"github.com/gin-gonic/gin"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/driver"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/ride"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/safety"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/auth"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/authz"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/config"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/metrics"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/ws"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/user"
)

// Deps — все зависимости HTTP слоя
type Deps struct {
	Config   config.Config
	JWT      *auth.JWTService
	Enforcer *authz.Enforcer
	Hub      *ws.Hub
	Health   map[string]HealthCheck
	Users    *user.Handler
	Rides    *ride.Handler
	Drivers  *driver.Handler
	Safety   *safety.Handler
}

// NewRouter собирает все маршруты приложения
func NewRouter(d Deps) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORS(d.Config.Server.AllowedOrigins))

	r.GET("/health", Health(d.Health))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/ws", gin.WrapF(d.Hub.ServeWS))

	authn := Authenticate(d.JWT)
	can := func(resource, action string) gin.HandlerFunc {
		return Require(d.Enforcer, resource, action)
	}

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", d.Users.Register)
		authGroup.POST("/login", d.Users.Login)
		authGroup.POST("/google", d.Users.GoogleLogin)

		account := authGroup.Group("", authn, can("account", "manage"))
		{
			account.GET("/me", d.Users.Me)
			account.PUT("/updateprofile", d.Users.UpdateProfile)
			account.PUT("/updatepassword", d.Users.UpdatePassword)
			account.PUT("/settings", d.Users.UpdateSettings)
			account.DELETE("/deleteaccount", d.Users.DeleteAccount)
			account.POST("/trusted-contacts", d.Users.AddTrustedContact)
			account.DELETE("/trusted-contacts/:id", d.Users.RemoveTrustedContact)
		}
	}

	rides := api.Group("/rides", authn)
	{
		rides.POST("", can("rides", "create"), d.Rides.Create)
		rides.GET("/pending", can("rides", "pending"), d.Rides.Pending)
		rides.GET("/active", can("rides", "read"), d.Rides.Active)
		rides.GET("/history", can("rides", "read"), d.Rides.History)
		rides.GET("/:id", can("rides", "read"), d.Rides.Get)
		rides.PUT("/:id/accept", can("rides", "accept"), d.Rides.Accept)
		rides.PUT("/:id/status", can("rides", "status"), d.Rides.UpdateStatus)
		rides.PUT("/:id/cancel", can("rides", "cancel"), d.Rides.Cancel)
		rides.POST("/:id/rate", can("rides", "rate"), d.Rides.Rate)
		rides.POST("/:id/share", can("rides", "share"), d.Rides.Share)
	}

	drivers := api.Group("/drivers", authn)
	{
		drivers.PUT("/location", can("drivers", "location"), d.Drivers.UpdateLocation)
		drivers.PUT("/availability", can("drivers", "availability"), d.Drivers.SetAvailability)
		drivers.PUT("/profile", can("drivers", "profile"), d.Drivers.UpdateProfile)
		drivers.GET("/earnings", can("drivers", "earnings"), d.Drivers.Earnings)
		drivers.POST("/cashout", can("drivers", "cashout"), d.Drivers.Cashout)
		drivers.POST("/documents", can("drivers", "documents"), d.Drivers.AddDocument)
		drivers.GET("/documents", can("drivers", "documents"), d.Drivers.Documents)
	}

	api.POST("/safety/sos", authn, can("safety", "sos"), d.Safety.SOS)

	return r
}
