package config

type App struct {
	Port           string `env:"APP_PORT" default:"8080"`
	Storage        string `env:"STORAGE" default:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL,required"`
	MigrationsPath string `env:"MIGRATIONS_PATH" default:"migrations"`
	Env            string `env:"APP_ENV" default:"dev"`
}

// Memory reports whether the in-memory store replaces postgres.
func (a App) Memory() bool { return a.Storage == "memory" }
