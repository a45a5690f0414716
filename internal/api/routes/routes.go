package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hearthline/hearthline/internal/api/handlers"
	"github.com/hearthline/hearthline/internal/api/middleware"
)

type Deps struct {
	Auth   *handlers.AuthHandler
	Call   *handlers.CallHandler
	Report *handlers.ReportHandler
	WS     *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/auth/login", d.Auth.Login)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	// call lifecycle + ingest, used by the companion platform
	auth.POST("/call/start", d.Call.Start)
	auth.GET("/call/:call_id", d.Call.Get)
	auth.POST("/call/:call_id/end", d.Call.End)
	auth.GET("/call/:call_id/transcript", d.Call.Transcript)
	auth.GET("/ws/call/:call_id", d.WS.CallWS)

	// caregiver dashboard
	auth.GET("/report/call/:call_id", d.Report.GetByCall)
	auth.GET("/report/resident/:resident_id", d.Report.ListByResident)

	// admin triage
	admin := auth.Group("/")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/report/critical", d.Report.ListCritical)
}
