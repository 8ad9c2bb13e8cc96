package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	BackendConfig struct {
		BaseURL          string
		ValidateStepPath string
		RegisterPath     string
		Timeout          time.Duration
	}

	DevServerConfig struct {
		Addr string
	}

	EmailConfig struct {
		SendgridAPIKey string
		FromName       string
		FromAddress    string
	}

	Config struct {
		Env          string // DEV (local; default), TEST, QA, PROD
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		WorkDir      string
		LoginURL     string
		RollbarToken string
		Backend      BackendConfig
		DevServer    DevServerConfig
		Email        EmailConfig
	}
)

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.Email.FromName, Address: c.Email.FromAddress}
}

// LoadConfig reads the configuration from the environment.
// A `config/.env.<env>` file in the working directory is loaded first if it exists.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Masomo")
	v.SetDefault("build", "dev")
	v.SetDefault("loginURL", "http://localhost:8080/login")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("backend.baseURL", "http://localhost:8000/api")
	v.SetDefault("backend.validateStepPath", "/register/validate-step")
	v.SetDefault("backend.registerPath", "/register")
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("devserver.addr", ":8000")
	v.SetDefault("email.sendgridAPIKey", "")
	v.SetDefault("email.fromName", "Masomo")
	v.SetDefault("email.fromAddress", "no-reply@masomo.local")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		WorkDir:      wd,
		LoginURL:     v.GetString("loginURL"),
		RollbarToken: v.GetString("rollbarToken"),
		Backend: BackendConfig{
			BaseURL:          strings.TrimRight(v.GetString("backend.baseURL"), "/"),
			ValidateStepPath: v.GetString("backend.validateStepPath"),
			RegisterPath:     v.GetString("backend.registerPath"),
			Timeout:          v.GetDuration("backend.timeout"),
		},
		DevServer: DevServerConfig{
			Addr: v.GetString("devserver.addr"),
		},
		Email: EmailConfig{
			SendgridAPIKey: v.GetString("email.sendgridAPIKey"),
			FromName:       v.GetString("email.fromName"),
			FromAddress:    v.GetString("email.fromAddress"),
		},
	}, nil
}
