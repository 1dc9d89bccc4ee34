// Package config handles the configuration directory, the optional
// config.toml file and derived file paths.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"todo/internal/task"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional TOML settings file inside Dir.
	ConfigFile = "config.toml"

	// DefaultTasksFile is the task file used when nothing overrides it.
	// Relative paths resolve against the working directory.
	DefaultTasksFile = "tasks.txt"

	// TasksFileEnv overrides the task file path.
	TasksFileEnv = "TODO_TASKS_FILE"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// TasksFile is the pipe-delimited task file.
	TasksFile string `toml:"tasks_file"`

	// DefaultPriority preselects the priority for new tasks.
	DefaultPriority task.Priority `toml:"default_priority"`

	// GoogleList is the Google Tasks list used by push.
	// Empty means the account's default list.
	GoogleList string `toml:"google_list"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`
}

// New creates a Config for configDir (or the default directory when empty),
// applying config.toml and the environment on top of the defaults.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:             dir,
		TasksFile:       DefaultTasksFile,
		DefaultPriority: task.DefaultPriority,
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	cfg.loadEnv()

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) loadFile() error {
	path := c.FilePath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("accessing config file: %w", err)
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	if v := strings.TrimSpace(os.Getenv(TasksFileEnv)); v != "" {
		c.TasksFile = v
	}
}

func (c *Config) finalize() error {
	if strings.TrimSpace(c.TasksFile) == "" {
		c.TasksFile = DefaultTasksFile
	}
	c.TasksFile = expandHome(c.TasksFile)

	p, err := task.ParsePriority(string(c.DefaultPriority))
	if err != nil {
		return fmt.Errorf("default_priority: %w", err)
	}
	c.DefaultPriority = p
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// FilePath returns the path to config.toml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
