// Package config carga la configuración de la app desde variables de entorno.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config agrupa toda la configuración del servicio.
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"pet-care-log"`
	Port    int    `env:"PORT" envDefault:"8080"`

	// Postgres. Si está vacío, se usan repos in-memory (dev).
	DBDSN string `env:"DB_DSN"`

	// Proveedor de identidad hosteado. Si BaseURL está vacío,
	// se usa el provider local in-process (dev/tests).
	AuthBaseURL string `env:"AUTH_BASE_URL"`
	AuthAPIKey  string `env:"AUTH_API_KEY"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Zona horaria con la que se corta "hoy" (medianoche local del servicio).
	TimeZone string `env:"TZ" envDefault:"Local"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Contrato de visibilidad eventual post-registro: cuánto esperar
	// a que el perfil recién creado sea resoluble por id, y cada cuánto
	// reintentar. Mejor que un sleep fijo después del alta.
	ProfileVisibilityTimeout  time.Duration `env:"PROFILE_VISIBILITY_TIMEOUT" envDefault:"3s"`
	ProfileVisibilityInterval time.Duration `env:"PROFILE_VISIBILITY_INTERVAL" envDefault:"100ms"`
}

// Load parsea el entorno y devuelve la Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Location resuelve la zona horaria configurada.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("config: time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
