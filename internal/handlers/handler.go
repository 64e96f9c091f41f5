package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"outreach_admin/internal/logger"
	"outreach_admin/internal/models"
	"outreach_admin/internal/service"
	"outreach_admin/internal/session"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Handler wires the HTTP layer to services, the session store, and logging.
type Handler struct {
	services      *service.Service
	sessions      *session.Store
	log           *logger.Logger
	secureCookies bool
	loginLimiter  *ipLimiter
}

// Options carries per-deployment handler settings.
type Options struct {
	// SecureCookies marks the session cookie Secure; set for production.
	SecureCookies bool
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, sessions *session.Store, log *logger.Logger, opts Options) *Handler {
	return &Handler{
		services:      services,
		sessions:      sessions,
		log:           log,
		secureCookies: opts.SecureCookies,
		loginLimiter:  newIPLimiter(loginRatePerSecond, loginBurst),
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.countRequests())
	router.SetHTMLTemplate(loadTemplates())

	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.registerAuthRoutes(router)

	app := router.Group("/", h.requireAuth)
	{
		app.GET("/", h.home)
		h.registerParticipantRoutes(app)
		h.registerEventRoutes(app)
		h.registerDonationRoutes(app)
		h.registerSurveyRoutes(app)
		h.registerMilestoneRoutes(app)
	}

	h.registerAdminRoutes(router)
	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.GET("/login", h.loginForm)
	r.POST("/login", h.login)
	r.POST("/logout", h.logout)
	r.GET("/register", h.registerForm)
	r.POST("/register", h.register)
}

func (h *Handler) registerParticipantRoutes(g *gin.RouterGroup) {
	p := g.Group("/participants")
	{
		p.GET("", h.listParticipants)
		p.GET("/new", h.newParticipantForm)
		p.POST("", h.createParticipant)
		p.GET("/:id", h.showParticipant)
		p.GET("/:id/edit", h.editParticipantForm)
		p.POST("/:id", h.updateParticipant)
		p.POST("/:id/delete", h.requireRole(models.RoleManager), h.deleteParticipant)
	}
}

func (h *Handler) registerEventRoutes(g *gin.RouterGroup) {
	e := g.Group("/events")
	{
		e.GET("", h.listEvents)
		e.GET("/new", h.newEventForm)
		e.POST("", h.createEvent)
		e.GET("/:id/edit", h.editEventForm)
		e.POST("/:id", h.updateEvent)
		e.POST("/:id/delete", h.requireRole(models.RoleManager), h.deleteEvent)
	}
}

func (h *Handler) registerDonationRoutes(g *gin.RouterGroup) {
	d := g.Group("/donations")
	{
		d.GET("", h.listDonations)
		d.GET("/new", h.newDonationForm)
		d.POST("", h.createDonation)
		d.GET("/:id/edit", h.editDonationForm)
		d.POST("/:id", h.updateDonation)
		d.POST("/:id/delete", h.requireRole(models.RoleManager), h.deleteDonation)
	}
}

func (h *Handler) registerSurveyRoutes(g *gin.RouterGroup) {
	s := g.Group("/surveys")
	{
		s.GET("", h.listSurveys)
		s.GET("/new", h.newSurveyForm)
		s.POST("", h.createSurvey)
		s.GET("/:id", h.showSurvey)
		s.POST("/:id", h.updateSurvey)
		s.POST("/:id/delete", h.requireRole(models.RoleManager), h.deleteSurvey)
		s.POST("/:id/questions", h.addSurveyQuestion)
		s.POST("/:id/questions/:qid/delete", h.deleteSurveyQuestion)
		s.POST("/:id/responses", h.submitSurveyResponse)
	}
}

func (h *Handler) registerMilestoneRoutes(g *gin.RouterGroup) {
	m := g.Group("/milestones")
	{
		m.GET("", h.listMilestones)
		m.GET("/new", h.newMilestoneForm)
		m.POST("", h.createMilestone)
		m.GET("/:id/edit", h.editMilestoneForm)
		m.POST("/:id", h.updateMilestone)
		m.POST("/:id/delete", h.requireRole(models.RoleManager), h.deleteMilestone)
	}
}

// registerAdminRoutes mounts the manager-only account screens.
func (h *Handler) registerAdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin", h.requireRole(models.RoleManager))
	{
		admin.GET("/users", h.listUsers)
		admin.POST("/users", h.addUser)
		admin.POST("/users/:id/role", h.changeUserRole)
		admin.POST("/users/:id/delete", h.deleteUser)
		admin.POST("/invites", h.createInvite)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// home sends authenticated users to the participants screen.
func (h *Handler) home(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/participants")
}

const (
	layoutDateTimeLocal = "2006-01-02T15:04"
	layoutDate          = "2006-01-02"
)

// parseFormTime accepts RFC3339, the datetime-local input format, or a bare
// date, normalizing to UTC.
func parseFormTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTimeLocal, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}

// loadTemplates parses the embedded page templates with shared helpers.
func loadTemplates() *template.Template {
	funcs := template.FuncMap{
		"dollars": func(cents int64) string {
			return fmt.Sprintf("$%.2f", float64(cents)/100)
		},
		"amount": func(cents int64) string {
			return fmt.Sprintf("%.2f", float64(cents)/100)
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format("2006-01-02 15:04")
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format(layoutDate)
		},
		"score": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}
