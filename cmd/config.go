package cmd

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	go_ora "github.com/sijms/go-ora/v2"
	"github.com/spf13/viper"

	"import-buddy/internal/dialect"
)

const (
	defaultDriver      = "postgres"
	defaultLockTimeout = 15 * time.Second
	defaultOraclePort  = 1521
)

// envBindings maps configuration keys to the environment variables that
// supply them.
var envBindings = []struct{ key, env string }{
	{"database.driver", "DB_DRIVER"},
	{"database.host", "DB_HOST"},
	{"database.name", "DB_DATABASE"},
	{"database.username", "DB_USERNAME"},
	{"database.password", "DB_PASSWORD"},
	{"database.connection", "DB_CONNECTION"},
	{"database.lock_timeout", "DB_LOCK_TIMEOUT"},
}

func envFor(key string) string {
	for _, b := range envBindings {
		if b.key == key {
			return b.env
		}
	}
	return key
}

func bindEnv(v *viper.Viper) {
	for _, b := range envBindings {
		_ = v.BindEnv(b.key, b.env)
	}
}

// ConfigError reports connection settings that are absent or unusable.
type ConfigError struct {
	Missing []string // environment variable names
	Reason  string
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return "missing required configuration: " + strings.Join(e.Missing, ", ")
	}
	return "invalid configuration: " + e.Reason
}

type DBConfig struct {
	Name        string        `mapstructure:"name"`
	Driver      string        `mapstructure:"driver"`
	DSN         string        `mapstructure:"dsn"`
	Active      bool          `mapstructure:"active"`
	Host        string        `mapstructure:"host"`
	Database    string        `mapstructure:"database"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

var errNoActiveDB = errors.New("no active database found in config (set active: true)")

// GetActiveDBConfig returns the entry of the databases list marked active.
func GetActiveDBConfig(v *viper.Viper) (*DBConfig, error) {
	var configs []DBConfig

	if err := v.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, errNoActiveDB
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	return activeConfig, nil
}

// LoadDBConfig assembles the connection settings. Values under database.*
// (flags, environment, config file) take precedence over the active entry
// of the databases list. The result is validated before it is returned.
func LoadDBConfig(v *viper.Viper) (*DBConfig, error) {
	cfg := &DBConfig{
		Name:     "default",
		Driver:   strings.ToLower(v.GetString("database.driver")),
		DSN:      v.GetString("database.connection"),
		Host:     v.GetString("database.host"),
		Database: v.GetString("database.name"),
		Username: v.GetString("database.username"),
		Password: v.GetString("database.password"),
	}

	active, err := GetActiveDBConfig(v)
	switch {
	case err == nil:
		cfg.merge(active)
	case !errors.Is(err, errNoActiveDB):
		return nil, &ConfigError{Reason: err.Error()}
	}

	if cfg.Driver == "" {
		cfg.Driver = defaultDriver
	}

	cfg.LockTimeout = defaultLockTimeout
	if raw := v.GetString("database.lock_timeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("%s: %v", envFor("database.lock_timeout"), err)}
		}
		cfg.LockTimeout = d
	} else if active != nil && active.LockTimeout > 0 {
		cfg.LockTimeout = active.LockTimeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge fills the fields still empty from a databases list entry.
func (c *DBConfig) merge(o *DBConfig) {
	if o.Name != "" {
		c.Name = o.Name
	}
	if c.Driver == "" {
		c.Driver = strings.ToLower(o.Driver)
	}
	if c.DSN == "" {
		c.DSN = o.DSN
	}
	if c.Host == "" {
		c.Host = o.Host
	}
	if c.Database == "" {
		c.Database = o.Database
	}
	if c.Username == "" {
		c.Username = o.Username
	}
	if c.Password == "" {
		c.Password = o.Password
	}
}

// Validate checks that the driver is known and that enough is configured to
// connect. It never contacts the database.
func (c *DBConfig) Validate() error {
	if _, err := dialect.GetDialect(c.Driver); err != nil {
		return &ConfigError{Reason: err.Error()}
	}
	if c.DSN != "" {
		return nil
	}

	if dialect.IsFileDriver(c.Driver) {
		if c.Database == "" {
			return &ConfigError{Missing: []string{envFor("database.name") + " or " + envFor("database.connection")}}
		}
		return nil
	}

	var missing []string
	for _, f := range []struct{ key, value string }{
		{"database.host", c.Host},
		{"database.name", c.Database},
		{"database.username", c.Username},
		{"database.password", c.Password},
	} {
		if f.value == "" {
			missing = append(missing, envFor(f.key))
		}
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// ConnString returns the DSN handed to sql.Open.
func (c *DBConfig) ConnString() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}

	switch c.Driver {
	case "postgres":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.Username, c.Password),
			Host:   c.Host,
			Path:   "/" + c.Database,
		}
		return u.String(), nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = c.Username
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = c.Host
		mc.DBName = c.Database
		return mc.FormatDSN(), nil
	case "sqlserver", "mssql":
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(c.Username, c.Password),
			Host:     c.Host,
			RawQuery: url.Values{"database": {c.Database}}.Encode(),
		}
		return u.String(), nil
	case "oracle":
		server, port, err := splitHostPort(c.Host, defaultOraclePort)
		if err != nil {
			return "", &ConfigError{Reason: fmt.Sprintf("%s: %v", envFor("database.host"), err)}
		}
		return go_ora.BuildUrl(server, port, c.Database, c.Username, c.Password, nil), nil
	default:
		return c.Database, nil
	}
}

func splitHostPort(hostport string, defaultPort int) (string, int, error) {
	if !strings.Contains(hostport, ":") {
		return hostport, defaultPort, nil
	}
	host, rawPort, err := net.SplitHostPort(hostport)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q", rawPort)
	}
	return host, port, nil
}

// loadDotEnv exports the variables of an env file into the process
// environment. Variables that are already set win. A missing file is not
// an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, key := range env.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, env.GetString(key)); err != nil {
			return fmt.Errorf("failed to export %s: %w", name, err)
		}
	}
	return nil
}
