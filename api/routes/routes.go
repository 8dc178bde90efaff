package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/wrd-mh/pah-award-api/internal/handler"
	"github.com/wrd-mh/pah-award-api/internal/middleware"
	"github.com/wrd-mh/pah-award-api/internal/models"
	"github.com/wrd-mh/pah-award-api/internal/repository"
	"github.com/wrd-mh/pah-award-api/internal/service"
)

// Handlers bundles the HTTP handlers mounted by Register.
type Handlers struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	WUAs        *handler.WUAHandler
	Nominations *handler.NominationHandler
	Assessment  *handler.AssessmentHandler
	Dashboard   *handler.DashboardHandler
	Reports     *handler.ReportHandler
	Metrics     *handler.MetricsHandler
}

// Options carries cross-cutting dependencies for route middleware.
type Options struct {
	AuthService *service.AuthService
	Metrics     *service.MetricsService
	AuditRepo   *repository.UserRepository
	EnableDocs  bool
}

// audit wraps middleware.Audit so route tables stay readable when no
// audit repository is configured. User and nomination services record
// their own audit rows; only WUA mutations rely on this middleware.
func audit(repo *repository.UserRepository, action, resource string) gin.HandlerFunc {
	if repo == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.Audit(repo, action, resource)
}

// Register mounts the full route table on the engine.
func Register(r *gin.Engine, h Handlers, opts Options) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", middleware.JWT(opts.AuthService), middleware.RequireRoles(models.RoleAdmin), h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api/v1")
	api.Use(middleware.WithResponseMeta())
	if opts.Metrics != nil {
		api.Use(middleware.Metrics(opts.Metrics))
	}

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)

		session := auth.Group("")
		session.Use(middleware.JWT(opts.AuthService))
		{
			session.POST("/logout", h.Auth.Logout)
			session.POST("/change-password", h.Auth.ChangePassword)
			session.GET("/me", h.Auth.Me)
		}
	}

	// Download tokens are self-authenticating; the route stays outside JWT.
	if h.Reports != nil {
		api.GET("/reports/download/:token", h.Reports.DownloadReport)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(opts.AuthService))
	{
		protected.GET("/assessment/rubric", h.Assessment.Rubric)

		nominations := protected.Group("/nominations")
		{
			nominations.POST("", middleware.RequireRoles(models.RoleNominee, models.RoleAdmin), h.Nominations.Create)
			nominations.GET("", h.Nominations.List)
			nominations.GET("/:id", h.Nominations.Get)
			nominations.POST("/:id/submit", middleware.RequireRoles(models.RoleNominee, models.RoleAdmin), h.Nominations.SubmitSelfAssessment)
			nominations.POST("/:id/decision", middleware.RequireRoles(
				models.RoleCircleCommittee,
				models.RoleCorporationCommittee,
				models.RoleStateCommittee,
				models.RoleAdmin,
			), h.Nominations.Decide)
		}

		wuas := protected.Group("/wuas")
		{
			wuas.GET("", h.WUAs.List)
			wuas.GET("/:id", h.WUAs.Get)
			wuas.POST("", middleware.RequireRoles(models.RoleAdmin),
				audit(opts.AuditRepo, "wua.create", "wuas"), h.WUAs.Create)
			wuas.PUT("/:id", middleware.RequireRoles(models.RoleAdmin),
				audit(opts.AuditRepo, "wua.update", "wuas"), h.WUAs.Update)
		}

		users := protected.Group("/users")
		{
			users.GET("", middleware.RequireRoles(models.RoleAdmin), h.Users.List)
			users.GET("/:id", middleware.RequireRolesOrSelf(models.RoleAdmin), h.Users.Get)
			users.POST("", middleware.RequireRoles(models.RoleAdmin), h.Users.Create)
			users.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), h.Users.Update)
			users.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.Users.Delete)
		}

		dashboard := protected.Group("/dashboard")
		dashboard.Use(middleware.RequireRoles(
			models.RoleCircleCommittee,
			models.RoleCorporationCommittee,
			models.RoleStateCommittee,
			models.RoleAdmin,
		))
		{
			dashboard.GET("", h.Dashboard.Stats)
			dashboard.GET("/system", middleware.RequireRoles(models.RoleAdmin), h.Dashboard.System)
		}

		if h.Reports != nil {
			reports := protected.Group("/reports")
			reports.Use(middleware.RequireRoles(
				models.RoleCircleCommittee,
				models.RoleCorporationCommittee,
				models.RoleStateCommittee,
				models.RoleAdmin,
			))
			{
				reports.POST("/generate", h.Reports.GenerateReport)
				reports.GET("/status/:id", h.Reports.ReportStatus)
			}
		}
	}
}
