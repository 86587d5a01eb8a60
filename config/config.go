package config

import (
	"os"
	"path"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type JobConfig struct {
	LowStockThreshold int    `yaml:"low_stock_threshold" json:"low_stock_threshold"`
	LowStockSpec      string `yaml:"low_stock_spec" json:"low_stock_spec"`
	TotalsAuditSpec   string `yaml:"totals_audit_spec" json:"totals_audit_spec"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
	Jobs     JobConfig `yaml:"jobs" json:"jobs"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "StoreMom",
		Location: "Asia/Bangkok",
		Workdir:  "/var/storemom",
		Debug:    true,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1880,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "storemom",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/storemom/storemom.log",
	},
	Jobs: JobConfig{
		LowStockThreshold: 5,
		LowStockSpec:      "@every 15m",
		TotalsAuditSpec:   "@daily",
	},
}

func setEnvValue(name string, val *string) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

func setEnvBoolValue(name string, val *bool) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

// LoadConfig loads the yaml configuration file and applies STOREMOM_*
// environment overrides. A missing file falls back to defaults.
func LoadConfig(cfile string) *AppConfig {
	// copy so env overrides never leak into the shared defaults
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" && FileExists(cfile) {
		data, err := os.ReadFile(cfile)
		if err != nil {
			panic(err)
		}
		cfg = new(AppConfig)
		if err := yaml.Unmarshal(data, cfg); err != nil {
			panic(err)
		}
	}

	setEnvValue("STOREMOM_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("STOREMOM_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("STOREMOM_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("STOREMOM_WEB_PORT", &cfg.Web.Port)

	setEnvValue("STOREMOM_DB_TYPE", &cfg.Database.Type)
	setEnvValue("STOREMOM_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("STOREMOM_DB_PORT", &cfg.Database.Port)
	setEnvValue("STOREMOM_DB_NAME", &cfg.Database.Name)
	setEnvValue("STOREMOM_DB_USER", &cfg.Database.User)
	setEnvValue("STOREMOM_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("STOREMOM_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("STOREMOM_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	return cfg
}

func FileExists(file string) bool {
	_, err := os.Stat(file)
	return err == nil
}

// InitDirs creates the working directories used for logs and local data.
func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(path.Join(c.System.Workdir, "logs"), 0o755)
	_ = os.MkdirAll(path.Join(c.System.Workdir, "data"), 0o755)
}
