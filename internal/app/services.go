package app

import (
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/biointellect/hospital_backend/config"
	"github.com/biointellect/hospital_backend/internal/service/analytics"
	"github.com/biointellect/hospital_backend/internal/service/auth"
	"github.com/biointellect/hospital_backend/internal/service/ecg"
	svcfile "github.com/biointellect/hospital_backend/internal/service/file"
	"github.com/biointellect/hospital_backend/internal/service/geo"
	"github.com/biointellect/hospital_backend/internal/service/llm"
	"github.com/biointellect/hospital_backend/internal/service/medcase"
	"github.com/biointellect/hospital_backend/internal/service/mri"
	"github.com/biointellect/hospital_backend/internal/service/notification"
	"github.com/biointellect/hospital_backend/internal/service/patient"
	"github.com/biointellect/hospital_backend/internal/service/report"
	"github.com/biointellect/hospital_backend/internal/service/user"
	"github.com/biointellect/hospital_backend/pkg/authorize"
	s3pkg "github.com/biointellect/hospital_backend/pkg/s3"
	"github.com/biointellect/hospital_backend/pkg/supabase"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideAuthService,
		ProvideUserService,
		ProvidePatientService,
		ProvideCaseService,
		ProvideFileService,
		ProvideECGService,
		ProvideMRIService,
		ProvideLLMService,
		ProvideReportService,
		ProvideNotificationService,
		ProvideAnalyticsService,
		ProvideGeoService,
	),
)

func ProvideAuthService(sb *supabase.Client, authz authorize.IAuthorization, nc *nats.Conn, cfg *config.Config) auth.Service {
	return auth.New(sb, authz, nc, cfg)
}

func ProvideUserService(sb *supabase.Client, cfg *config.Config) user.Service {
	return user.New(sb, cfg)
}

func ProvidePatientService(sb *supabase.Client, cfg *config.Config) (patient.Service, error) {
	return patient.New(sb, cfg)
}

func ProvideCaseService(sb *supabase.Client, cfg *config.Config) medcase.Service {
	return medcase.New(sb, cfg)
}

func ProvideFileService(sb *supabase.Client, s3 *s3pkg.Client) svcfile.Service {
	return svcfile.New(sb, s3)
}

func ProvideECGService(sb *supabase.Client, nc *nats.Conn) ecg.Service {
	return ecg.New(sb, nc)
}

func ProvideMRIService(sb *supabase.Client, nc *nats.Conn) mri.Service {
	return mri.New(sb, nc)
}

func ProvideLLMService(sb *supabase.Client, nc *nats.Conn) llm.Service {
	return llm.New(sb, nc)
}

func ProvideReportService(sb *supabase.Client) report.Service {
	return report.New(sb)
}

func ProvideNotificationService(sb *supabase.Client) notification.Service {
	return notification.New(sb)
}

func ProvideAnalyticsService(sb *supabase.Client, rdb *redis.Client) analytics.Service {
	return analytics.New(sb, rdb)
}

func ProvideGeoService(sb *supabase.Client) geo.Service {
	return geo.New(sb)
}
