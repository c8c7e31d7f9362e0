package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Upload    UploadConfig
	Inventory InventoryConfig
	Jobs      JobsConfig
	Seed      SeedConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host     string
	Port     int
	DocsFile string // swagger.json opcional; vacío o inexistente = sin /docs
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// StorageConfig almacenamiento clave/valor de sesiones y notificaciones.
type StorageConfig struct {
	Driver        string // memory | redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// UploadConfig destino de las imágenes subidas por /api/upload.
type UploadConfig struct {
	Mode                  string // inline | local | azure
	LocalBasePath         string
	PublicBaseURL         string
	AzureConnectionString string
	AzureContainer        string
	MaxBytes              int
}

// InventoryConfig reglas de inventario.
type InventoryConfig struct {
	LowStockThreshold int
}

// JobsConfig tareas programadas (robfig/cron).
type JobsConfig struct {
	LowStockCron string // vacío = desactivado
}

// SeedConfig datos de ejemplo al arrancar.
type SeedConfig struct {
	Fixtures bool
}

// IsDevelopment indica si la app corre en modo desarrollo.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, JWT_SECRET, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "ops-dashboard"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:     getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:     getInt(v, "HTTP_PORT", 8080),
			DocsFile: getString(v, "HTTP_DOCS_FILE", "./docs/swagger.json"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "ops-dashboard"),
		},
		Storage: StorageConfig{
			Driver:        getString(v, "STORAGE_DRIVER", "memory"),
			RedisAddr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			RedisPassword: getString(v, "REDIS_PASSWORD", ""),
			RedisDB:       getInt(v, "REDIS_DB", 0),
		},
		Upload: UploadConfig{
			Mode:                  getString(v, "UPLOAD_MODE", "inline"),
			LocalBasePath:         getString(v, "UPLOAD_LOCAL_PATH", "./uploads"),
			PublicBaseURL:         getString(v, "UPLOAD_PUBLIC_BASE_URL", "/uploads"),
			AzureConnectionString: getString(v, "UPLOAD_AZURE_CONNECTION_STRING", ""),
			AzureContainer:        getString(v, "UPLOAD_AZURE_CONTAINER", "avatars"),
			MaxBytes:              getInt(v, "UPLOAD_MAX_BYTES", 5*1024*1024),
		},
		Inventory: InventoryConfig{
			LowStockThreshold: getInt(v, "INVENTORY_LOW_STOCK_THRESHOLD", 3),
		},
		Jobs: JobsConfig{
			LowStockCron: getString(v, "JOBS_LOW_STOCK_CRON", "@every 5m"),
		},
		Seed: SeedConfig{
			Fixtures: getBool(v, "SEED_FIXTURES", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa combinaciones inválidas. En development se acepta un secreto JWT de desarrollo.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		if !c.App.IsDevelopment() {
			return fmt.Errorf("config: JWT_SECRET es obligatorio fuera de development")
		}
		c.JWT.Secret = "dev-secret-change-me"
	}
	switch c.Storage.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: STORAGE_DRIVER no soportado: %s", c.Storage.Driver)
	}
	switch c.Upload.Mode {
	case "inline", "local", "azure":
	default:
		return fmt.Errorf("config: UPLOAD_MODE no soportado: %s", c.Upload.Mode)
	}
	if c.Inventory.LowStockThreshold < 0 {
		return fmt.Errorf("config: INVENTORY_LOW_STOCK_THRESHOLD no puede ser negativo")
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
			n, err := strconv.Atoi(v.GetString(key))
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
		b, err := strconv.ParseBool(v.GetString(key))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
