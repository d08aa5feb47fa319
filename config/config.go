package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ConfigName is the base name (without extension) of the configuration file looked up in the working directory.
const ConfigName = "aibundle-config"

// FilesConfig names the files the tool reads and writes, relative to the working directory.
type FilesConfig struct {
	SelfFile         string `mapstructure:"self_file" yaml:"self_file"`
	SnapshotFile     string `mapstructure:"snapshot_file" yaml:"snapshot_file"`
	ConversationFile string `mapstructure:"conversation_file" yaml:"conversation_file"`
	ExportPrefix     string `mapstructure:"export_prefix" yaml:"export_prefix"`
	IgnoreFile       string `mapstructure:"ignore_file" yaml:"ignore_file"`
}

// SnapshotConfig controls how the codebase is collected and stored.
type SnapshotConfig struct {
	EmitMarkers       bool     `mapstructure:"emit_markers" yaml:"emit_markers"`
	MaxFileSize       int64    `mapstructure:"max_file_size" yaml:"max_file_size"`
	UseDefaultIgnores bool     `mapstructure:"use_default_ignores" yaml:"use_default_ignores"`
	ExcludePatterns   []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// Config represents the structure of the configuration file
type Config struct {
	Version     string         `mapstructure:"version" yaml:"version"`
	Theme       string         `mapstructure:"theme" yaml:"theme"`
	Highlight   bool           `mapstructure:"highlight" yaml:"highlight"`
	EnableCache bool           `mapstructure:"enable_cache" yaml:"enable_cache"`
	CacheDir    string         `mapstructure:"cache_dir" yaml:"cache_dir"`
	Files       FilesConfig    `mapstructure:"files" yaml:"files"`
	Snapshot    SnapshotConfig `mapstructure:"snapshot" yaml:"snapshot"`
	Logging     LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:     "1.0.0",
	Theme:       "dracula",
	Highlight:   true,
	EnableCache: false,
	CacheDir:    ".aibundle-cache",
	Files: FilesConfig{
		SelfFile:         "",
		SnapshotFile:     "codebase_snapshot.txt",
		ConversationFile: "ai_conversation.txt",
		ExportPrefix:     "ai_export_",
		IgnoreFile:       ".aibundle-ignore",
	},
	Snapshot: SnapshotConfig{
		EmitMarkers:       true,
		MaxFileSize:       0,
		UseDefaultIgnores: false,
		ExcludePatterns:   []string{"ai_export_*.txt"},
	},
	Logging: LoggingConfig{
		Level:  "warn",
		Format: "text",
		Output: "stderr",
	},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs builds the final config from defaults, the configuration file, environment variables and flags,
// in increasing order of precedence.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	bindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(cwd)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			logrus.Debug("No configuration file found, using defaults")
		}
	}

	bindFlags(v, rootCmd)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &config, nil
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", DefaultConfig.Version)
	v.SetDefault("theme", DefaultConfig.Theme)
	v.SetDefault("highlight", DefaultConfig.Highlight)
	v.SetDefault("enable_cache", DefaultConfig.EnableCache)
	v.SetDefault("cache_dir", DefaultConfig.CacheDir)
	v.SetDefault("files.self_file", DefaultConfig.Files.SelfFile)
	v.SetDefault("files.snapshot_file", DefaultConfig.Files.SnapshotFile)
	v.SetDefault("files.conversation_file", DefaultConfig.Files.ConversationFile)
	v.SetDefault("files.export_prefix", DefaultConfig.Files.ExportPrefix)
	v.SetDefault("files.ignore_file", DefaultConfig.Files.IgnoreFile)
	v.SetDefault("snapshot.emit_markers", DefaultConfig.Snapshot.EmitMarkers)
	v.SetDefault("snapshot.max_file_size", DefaultConfig.Snapshot.MaxFileSize)
	v.SetDefault("snapshot.use_default_ignores", DefaultConfig.Snapshot.UseDefaultIgnores)
	v.SetDefault("snapshot.exclude_patterns", DefaultConfig.Snapshot.ExcludePatterns)
	v.SetDefault("logging.level", DefaultConfig.Logging.Level)
	v.SetDefault("logging.format", DefaultConfig.Logging.Format)
	v.SetDefault("logging.output", DefaultConfig.Logging.Output)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("theme", "AIBUNDLE_THEME")
	_ = v.BindEnv("highlight", "AIBUNDLE_HIGHLIGHT")
	_ = v.BindEnv("enable_cache", "AIBUNDLE_ENABLE_CACHE")
	_ = v.BindEnv("cache_dir", "AIBUNDLE_CACHE_DIR")
	_ = v.BindEnv("files.self_file", "AIBUNDLE_SELF_FILE")
	_ = v.BindEnv("files.snapshot_file", "AIBUNDLE_SNAPSHOT_FILE")
	_ = v.BindEnv("files.conversation_file", "AIBUNDLE_CONVERSATION_FILE")
	_ = v.BindEnv("files.export_prefix", "AIBUNDLE_EXPORT_PREFIX")
	_ = v.BindEnv("snapshot.emit_markers", "AIBUNDLE_EMIT_MARKERS")
	_ = v.BindEnv("snapshot.max_file_size", "AIBUNDLE_MAX_FILE_SIZE")
	_ = v.BindEnv("logging.level", "AIBUNDLE_LOG_LEVEL")
	_ = v.BindEnv("logging.format", "AIBUNDLE_LOG_FORMAT")
	_ = v.BindEnv("logging.output", "AIBUNDLE_LOG_OUTPUT")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(v *viper.Viper, rootCmd *cobra.Command) {
	if rootCmd == nil {
		return
	}
	flags := rootCmd.PersistentFlags()
	_ = v.BindPFlag("theme", flags.Lookup("theme"))
	_ = v.BindPFlag("highlight", flags.Lookup("highlight"))
	_ = v.BindPFlag("enable_cache", flags.Lookup("enable_cache"))
	_ = v.BindPFlag("files.snapshot_file", flags.Lookup("snapshot_file"))
	_ = v.BindPFlag("files.conversation_file", flags.Lookup("conversation_file"))
	_ = v.BindPFlag("files.export_prefix", flags.Lookup("export_prefix"))
	_ = v.BindPFlag("snapshot.emit_markers", flags.Lookup("emit_markers"))
	_ = v.BindPFlag("snapshot.max_file_size", flags.Lookup("max_file_size"))
	_ = v.BindPFlag("logging.level", flags.Lookup("log_level"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Set the chroma theme used when viewing the snapshot (e.g., 'dracula', 'monokai', 'github').")
	rootCmd.PersistentFlags().Bool("highlight", DefaultConfig.Highlight, "Highlight the snapshot when printing it to a terminal.")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Enable or disable the file content cache used while collecting the codebase.")

	rootCmd.PersistentFlags().String("snapshot_file", DefaultConfig.Files.SnapshotFile, "File the codebase snapshot is written to.")
	rootCmd.PersistentFlags().String("conversation_file", DefaultConfig.Files.ConversationFile, "Append-only file holding the conversation log.")
	rootCmd.PersistentFlags().String("export_prefix", DefaultConfig.Files.ExportPrefix, "Prefix of the generated export file names.")

	rootCmd.PersistentFlags().Bool("emit_markers", DefaultConfig.Snapshot.EmitMarkers, "Write 'README FILES:' and 'OTHER FILES:' markers into the snapshot.")
	rootCmd.PersistentFlags().Int64("max_file_size", DefaultConfig.Snapshot.MaxFileSize, "Skip files larger than this many bytes (0 disables the limit).")
	rootCmd.PersistentFlags().String("log_level", DefaultConfig.Logging.Level, "Log level (debug, info, warn, error).")
}

// ResolveSelfFile returns the path, relative to cwd, under which the tool's own file is excluded from snapshots.
// An explicit files.self_file wins; otherwise the running executable is used. It is empty when the file
// lies outside cwd, since the walk can never reach it then.
func (c *Config) ResolveSelfFile(cwd string) string {
	if c.Files.SelfFile != "" {
		return relativeTo(cwd, c.Files.SelfFile)
	}

	exe, err := os.Executable()
	if err != nil {
		return ""
	}

	return relativeTo(cwd, exe)
}

// Exclusions lists the relative paths the collector must never include: the tool itself,
// the snapshot file, the conversation log and the cache directory.
func (c *Config) Exclusions(cwd string) []string {
	var exclusions []string
	for _, path := range []string{
		c.ResolveSelfFile(cwd),
		relativeTo(cwd, c.Files.SnapshotFile),
		relativeTo(cwd, c.Files.ConversationFile),
		relativeTo(cwd, c.CacheDir),
	} {
		if path != "" {
			exclusions = append(exclusions, path)
		}
	}
	return exclusions
}

// relativeTo turns path into a clean slash-separated path relative to cwd.
// Relative paths are taken as relative to cwd already. Paths outside cwd yield "".
func relativeTo(cwd string, path string) string {
	if path == "" {
		return ""
	}

	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(cwd, path)
		if err != nil {
			return ""
		}
		path = rel
	}

	path = filepath.Clean(path)
	if path == "." || path == ".." || strings.HasPrefix(path, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(path)
}
