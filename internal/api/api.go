package api

import (
	"html/template"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"campusportal/internal/middleware"
	"campusportal/internal/portal"
	"campusportal/internal/repo"
	"campusportal/internal/service"
)

// Routers bundles everything the HTTP layer mounts.
type Routers struct {
	Service       service.Service
	Pages         *portal.Pages
	Log           *zerolog.Logger
	TemplatesGlob string
}

// NewRouters wires the JSON API, the prometheus endpoint and the server-side
// portal pages onto one engine. An empty TemplatesGlob skips the pages,
// which keeps API-only tests free of template files.
func NewRouters(r *Routers) *gin.Engine {
	app := gin.New()
	app.Use(gin.Recovery())
	app.Use(middleware.Logging(r.Log))
	app.Use(middleware.Metrics())
	app.Use(cors.Default())

	apiGroup := app.Group("/api")
	apiGroup.GET("/events", r.Service.ListEvents)
	apiGroup.GET("/events/:id", r.Service.GetEvent)
	apiGroup.POST("/events", r.Service.CreateEvent)
	apiGroup.DELETE("/events/:id", r.Service.DeleteEvent)
	apiGroup.GET("/registrations", r.Service.ListRegistrations)
	apiGroup.POST("/registrations", r.Service.CreateRegistration)
	apiGroup.PATCH("/registrations/:id", r.Service.UpdateRegistrationStatus)
	apiGroup.POST("/accounts/signup", r.Service.Signup)
	apiGroup.POST("/accounts/login", r.Service.Login)
	apiGroup.PUT("/accounts/profile", r.Service.UpdateProfile)

	app.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if r.Pages != nil && r.TemplatesGlob != "" {
		app.SetFuncMap(templateFuncs())
		app.LoadHTMLGlob(r.TemplatesGlob)

		app.GET("/", r.Pages.Index)
		app.GET("/events/:id", r.Pages.EventDetail)
		app.GET("/register/:id", r.Pages.RegisterForm)
		app.POST("/register/:id", r.Pages.SubmitRegistration)
		app.GET("/login", r.Pages.LoginForm)
		app.POST("/login", r.Pages.SubmitLogin)
		app.GET("/signup", r.Pages.SignupForm)
		app.POST("/signup", r.Pages.SubmitSignup)
		app.POST("/logout", r.Pages.Logout)

		admin := app.Group("/admin", portal.RequireRoles("admin"))
		admin.GET("", r.Pages.AdminDashboard)
		admin.POST("/events", r.Pages.CreateEventForm)
		admin.POST("/events/:id/delete", r.Pages.DeleteEventForm)
		admin.GET("/registrations", r.Pages.AdminRegistrations)
		admin.POST("/registrations/:id/status", r.Pages.UpdateRegistrationStatusForm)
	}

	return app
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"upper": strings.ToUpper,
		"formatDate": func(value string) string {
			date := repo.ParseEventDate(value)
			if date.IsZero() {
				return "Date TBA"
			}
			return date.Format("Mon, Jan 2, 2006")
		},
		"timeRange": func(start, end string) string {
			if start == "" && end == "" {
				return "Schedule coming soon"
			}
			if end == "" {
				return start
			}
			return start + " – " + end
		},
	}
}
