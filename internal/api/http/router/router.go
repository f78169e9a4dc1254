package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/biointellect/hospital_backend/config"
	"github.com/biointellect/hospital_backend/internal/api/http/handler"
	"github.com/biointellect/hospital_backend/internal/api/http/middleware"
	"github.com/biointellect/hospital_backend/internal/service/analytics"
	"github.com/biointellect/hospital_backend/internal/service/auth"
	"github.com/biointellect/hospital_backend/internal/service/ecg"
	"github.com/biointellect/hospital_backend/internal/service/file"
	"github.com/biointellect/hospital_backend/internal/service/geo"
	"github.com/biointellect/hospital_backend/internal/service/llm"
	"github.com/biointellect/hospital_backend/internal/service/medcase"
	"github.com/biointellect/hospital_backend/internal/service/mri"
	"github.com/biointellect/hospital_backend/internal/service/notification"
	"github.com/biointellect/hospital_backend/internal/service/patient"
	"github.com/biointellect/hospital_backend/internal/service/report"
	"github.com/biointellect/hospital_backend/internal/service/user"
	"github.com/biointellect/hospital_backend/pkg/authorize"
	"github.com/biointellect/hospital_backend/pkg/supabase"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	Redis           *redis.Client
	Auth            authorize.IAuthorization
	Supabase        *supabase.Client
	AuthSvc         auth.Service
	UserSvc         user.Service
	PatientSvc      patient.Service
	CaseSvc         medcase.Service
	FileSvc         file.Service
	ECGSvc          ecg.Service
	MRISvc          mri.Service
	LLMSvc          llm.Service
	ReportSvc       report.Service
	NotificationSvc notification.Service
	AnalyticsSvc    analytics.Service
	GeoSvc          geo.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	authRequired := middleware.AuthRequired(r.p.AuthSvc)
	hospitalScope := middleware.HospitalScope(r.p.Supabase)

	// Permission helper
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	// 3. Initialize Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc)
	userH := handler.NewUserHandler(r.p.UserSvc)
	patientH := handler.NewPatientHandler(r.p.PatientSvc)
	caseH := handler.NewCaseHandler(r.p.CaseSvc)
	fileH := handler.NewFileHandler(r.p.FileSvc)
	ecgH := handler.NewECGHandler(r.p.ECGSvc)
	mriH := handler.NewMRIHandler(r.p.MRISvc)
	llmH := handler.NewLLMHandler(r.p.LLMSvc)
	reportH := handler.NewReportHandler(r.p.ReportSvc)
	notificationH := handler.NewNotificationHandler(r.p.NotificationSvc)
	analyticsH := handler.NewAnalyticsHandler(r.p.AnalyticsSvc)
	geoH := handler.NewGeoHandler(r.p.GeoSvc)

	api := app.Group("/api/v1")

	// 4. Delegate to sub-files
	r.registerAuthRoutes(api, authH, authRequired)
	r.registerUserRoutes(api, userH, authRequired, hospitalScope, requirePerm)
	r.registerPatientRoutes(api, patientH, authRequired, hospitalScope, requirePerm)
	r.registerCaseRoutes(api, caseH, fileH, authRequired, hospitalScope, requirePerm)
	r.registerFileRoutes(api, fileH, authRequired, requirePerm)
	r.registerECGRoutes(api, ecgH, authRequired, requirePerm)
	r.registerMRIRoutes(api, mriH, authRequired, requirePerm)
	r.registerLLMRoutes(api, llmH, authRequired, requirePerm)
	r.registerReportRoutes(api, reportH, authRequired, requirePerm)
	r.registerNotificationRoutes(api, notificationH, authRequired)
	r.registerAnalyticsRoutes(api, analyticsH, authRequired, hospitalScope, requirePerm)
	r.registerGeoRoutes(api, geoH, authRequired, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return authorize.IsPolicyHealthy() },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
