package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/deepset/internal/cli"
	"github.com/aretw0/deepset/internal/config"
	"github.com/aretw0/deepset/pkg/document"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// boundFlags maps persistent flags to config keys.
var boundFlags = map[string]string{
	"store":          "store",
	"dir":            "dir",
	"format":         "format",
	"sqlite-path":    "sqlite_path",
	"redis-addr":     "redis_addr",
	"redis-lock":     "redis_lock",
	"log-level":      "log_level",
	"match":          "match",
	"max-holes":      "max_holes",
	"encryption-key": "encryption_key",
	"mask":           "mask",
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "deepset",
		Short: "Deepset writes values deep inside stored documents",
		Long: `Deepset assigns a value at a path such as "a.b[0].c" inside a JSON or YAML
document, creating every missing level on the way. Documents live in a
pluggable store (file, sqlite, redis, loam or memory).`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (default .deepset/config.yaml)")
	flags.String("store", config.StoreFile, "Document store: memory, file, sqlite, redis, loam")
	flags.String("dir", config.Default().Dir, "Directory of the file and loam stores")
	flags.String("format", "json", "File store format: json or yaml")
	flags.String("sqlite-path", config.Default().SQLitePath, "SQLite database path")
	flags.String("redis-addr", config.Default().RedisAddr, "Redis address")
	flags.Bool("redis-lock", false, "Serialize writers across processes with a Redis lock")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("match", "", "Regular expression matching the keys of string paths")
	flags.Int("max-holes", config.Default().MaxHoles, "Most nil entries a write past the end of a list may pad")
	flags.String("encryption-key", "", "32 byte key (hex or base64) sealing stored documents")
	flags.StringSlice("mask", nil, "Key patterns whose values are masked before storing")
	flags.BoolP("quiet", "q", false, "Disable logging")

	root.AddCommand(
		newSetCmd(),
		newGetCmd(),
		newTraceCmd(),
		newListCmd(),
		newDeleteCmd(),
		newServeCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
	return root
}

// env holds what every document command needs.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	manager *document.Manager
	backend *cli.Backend
}

func (e *env) Close() error {
	return e.backend.Close()
}

// loadConfig merges flags, environment and the config file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := viper.New()
	config.Bind(v)

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := boundFlags[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return config.Config{}, bindErr
	}

	path, _ := cmd.Flags().GetString("config")
	return config.Load(v, path)
}

// setup loads the config and opens the manager. hooks observe every write.
func setup(cmd *cobra.Command, hooks domain.Hooks) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	logger, err := cli.CreateLogger(cfg.LogLevel, quiet)
	if err != nil {
		return nil, err
	}
	mgr, backend, err := cli.NewManager(cfg, logger, hooks)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, manager: mgr, backend: backend}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
