package app

import (
	"strings"
	"time"

	"github.com/yungbote/homeslice-backend/internal/platform/envutil"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/services"
)

type Config struct {
	ListenAddr     string
	Mode           string
	AllowedOrigins []string
	StorageRoot    string
	RedisEnabled   bool

	Auth services.AuthConfig
	Push services.PushConfig
}

func LoadConfig(log *logger.Logger) Config {
	accessTTL := time.Duration(envutil.GetEnvAsInt("JWT_ACCESS_TTL_MINUTES", 15, log)) * time.Minute
	refreshTTL := time.Duration(envutil.GetEnvAsInt("JWT_REFRESH_TTL_HOURS", 24*30, log)) * time.Hour
	origins := strings.Split(envutil.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000", log), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return Config{
		ListenAddr:     envutil.GetEnv("LISTEN_ADDR", ":8080", log),
		Mode:           envutil.GetEnv("APP_MODE", "development", log),
		AllowedOrigins: origins,
		StorageRoot:    envutil.GetEnv("STORAGE_ROOT", "./data/media", log),
		RedisEnabled:   envutil.GetEnvAsBool("REDIS_ENABLED", false, log),
		Auth: services.AuthConfig{
			JWTSecret:  envutil.GetEnv("JWT_SECRET", "", log),
			AccessTTL:  accessTTL,
			RefreshTTL: refreshTTL,
		},
		Push: services.PushConfig{
			VAPIDPublicKey:  envutil.GetEnv("VAPID_PUBLIC_KEY", "", log),
			VAPIDPrivateKey: envutil.GetEnv("VAPID_PRIVATE_KEY", "", log),
			Subscriber:      envutil.GetEnv("VAPID_SUBSCRIBER", "mailto:admin@example.com", log),
		},
	}
}
