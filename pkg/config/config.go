package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del cliente del dashboard (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	API       APIConfig
	Session   SessionConfig
	Dashboard DashboardConfig
	HTTP      HTTPConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// APIConfig ubicación del backend de analítica y sus endpoints.
// Las rutas son configuración; el núcleo no depende de ellas.
type APIConfig struct {
	BaseURL        string
	AnalyticsPath  string
	SKUPath        string
	CachePath      string
	TimeoutSeconds int
}

// Timeout devuelve el timeout del cliente HTTP como duración.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionConfig origen del token de sesión.
// Si Token no está vacío tiene prioridad sobre TokenFile.
type SessionConfig struct {
	Token     string
	TokenFile string
}

// DashboardConfig parámetros de caché, refresco y clasificación de stock.
type DashboardConfig struct {
	CacheTTLMillis         int
	RefreshIntervalSeconds int // 0 = sin auto-refresco
	SKUPageSize            int
	FastMode               bool
	DefaultPlatform        string // shopify | amazon | all
	LowStockThreshold      int
	OverstockThreshold     int
}

// CacheTTL devuelve el TTL de la caché de peticiones.
func (c DashboardConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMillis) * time.Millisecond
}

// RefreshInterval devuelve el intervalo de auto-refresco (0 = deshabilitado).
func (c DashboardConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// HTTPConfig configuración del servidor de vistas del dashboard.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_BASE_URL, CACHE_TTL_MS, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-dashboard"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL:        strings.TrimRight(getString(v, "API_BASE_URL", "http://localhost:8000"), "/"),
			AnalyticsPath:  getString(v, "API_ANALYTICS_PATH", "/api/inventory/analytics"),
			SKUPath:        getString(v, "API_SKU_PATH", "/api/inventory/skus"),
			CachePath:      getString(v, "API_CACHE_PATH", "/api/inventory/cache"),
			TimeoutSeconds: getInt(v, "API_TIMEOUT_SECONDS", 30),
		},
		Session: SessionConfig{
			Token:     getString(v, "SESSION_TOKEN", ""),
			TokenFile: getString(v, "SESSION_TOKEN_FILE", ".inventario/session_token"),
		},
		Dashboard: DashboardConfig{
			CacheTTLMillis:         getInt(v, "CACHE_TTL_MS", 30000),
			RefreshIntervalSeconds: getInt(v, "REFRESH_INTERVAL_SECONDS", 300),
			SKUPageSize:            getInt(v, "SKU_PAGE_SIZE", 50),
			FastMode:               getBool(v, "FAST_MODE", true),
			DefaultPlatform:        getString(v, "DEFAULT_PLATFORM", "all"),
			LowStockThreshold:      getInt(v, "LOW_STOCK_THRESHOLD", 10),
			OverstockThreshold:     getInt(v, "OVERSTOCK_THRESHOLD", 100),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8090),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa los valores que el núcleo no puede corregir por sí mismo.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: API_BASE_URL vacío")
	}
	if c.Dashboard.SKUPageSize <= 0 {
		return fmt.Errorf("config: SKU_PAGE_SIZE debe ser mayor que cero")
	}
	if c.Dashboard.CacheTTLMillis <= 0 {
		return fmt.Errorf("config: CACHE_TTL_MS debe ser mayor que cero")
	}
	if c.Dashboard.RefreshIntervalSeconds < 0 {
		return fmt.Errorf("config: REFRESH_INTERVAL_SECONDS no puede ser negativo")
	}
	if c.Dashboard.LowStockThreshold >= c.Dashboard.OverstockThreshold {
		return fmt.Errorf("config: LOW_STOCK_THRESHOLD (%d) debe ser menor que OVERSTOCK_THRESHOLD (%d)",
			c.Dashboard.LowStockThreshold, c.Dashboard.OverstockThreshold)
	}
	switch c.Dashboard.DefaultPlatform {
	case "shopify", "amazon", "all":
	default:
		return fmt.Errorf("config: DEFAULT_PLATFORM inválido: %q", c.Dashboard.DefaultPlatform)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
