package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jtown42/heartsoundtutorstatic/internal/handler"
	appI18n "github.com/jtown42/heartsoundtutorstatic/internal/i18n"
	"github.com/jtown42/heartsoundtutorstatic/internal/model"
	"github.com/jtown42/heartsoundtutorstatic/internal/phrasing"
	"github.com/jtown42/heartsoundtutorstatic/internal/store"
	"github.com/jtown42/heartsoundtutorstatic/internal/tutor"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "heartsound-tutor",
		Short: "Guided heart-murmur tutor with MCQ and coaching modes",
	}

	serve := serveCmd()
	root.AddCommand(serve)

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tutor HTTP server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "heartsound.db", "SQLite database path")
	f.StringP("cases", "c", "static/data/murmurs.json", "Path to the murmur bank JSON file")
	f.String("sounds-dir", "static/sounds", "Directory with heart-sound audio files")
	f.StringP("mode", "m", string(tutor.ModeMCQ), "Tutoring mode (mcq, coach)")
	f.StringP("lang", "l", "en", "UI language (en, ru)")
	f.String("llm-url", "", "OpenAI-compatible API base URL (empty = default OpenAI)")
	f.String("llm-key", "", "API key for the phrasing adapter (empty = local templates only)")
	f.String("llm-model", "gpt-4o-mini", "Model name for the phrasing adapter")
	f.Duration("llm-timeout", phrasing.DefaultTimeout, "Per-call timeout for the phrasing adapter")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("HEARTSOUND")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("heartsound")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/heartsound-tutor")
	v.AddConfigPath("/etc/heartsound-tutor")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := loadCases(db, v.GetString("cases")); err != nil {
		return fmt.Errorf("load cases: %w", err)
	}

	bank, err := db.Bank()
	if err != nil {
		return fmt.Errorf("build case bank: %w", err)
	}
	if len(bank) == 0 {
		return fmt.Errorf("case bank is empty: nothing to tutor")
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	mode := strings.ToLower(strings.TrimSpace(v.GetString("mode")))
	if !tutor.IsValidMode(mode) {
		slog.Warn("invalid mode, using mcq", "mode", mode)
		mode = string(tutor.ModeMCQ)
	}

	// The phrasing adapter is optional: without a key the tutor runs on
	// local templates only.
	var gen phrasing.Generator
	live := false
	if key := v.GetString("llm-key"); key != "" {
		gen = phrasing.New(
			v.GetString("llm-url"),
			key,
			v.GetString("llm-model"),
			v.GetDuration("llm-timeout"),
		)
		live = true
	}

	engine := tutor.New(bank, gen, tutor.Config{Mode: tutor.Mode(mode)})
	h := handler.New(engine, v.GetString("sounds-dir"), live)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"mode", mode,
		"lang", lang,
		"cases", len(bank),
		"ai_mode", map[bool]string{true: "live", false: "mock"}[live],
	)
	return http.ListenAndServe(addr, r)
}

// bankFile is the shape of the murmur bank JSON file.
type bankFile struct {
	Items []model.RawCase `json:"items"`
}

// loadCases imports the bank file once, skipping when its content hash is
// already recorded so restarts do not duplicate cases.
func loadCases(db *store.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	hash := sha256sum(data)
	storedHash, err := db.GetImportedFileHash(path)
	if err != nil {
		return fmt.Errorf("check import status for %s: %w", path, err)
	}
	if storedHash == hash {
		slog.Info("case bank unchanged, skipping import", "path", path)
		return nil
	}
	if storedHash != "" {
		slog.Warn("case bank changed since last import, skipping to keep option seeding stable",
			"path", path)
		return nil
	}

	var bank bankFile
	if err := json.Unmarshal(data, &bank); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for i, raw := range bank.Items {
		item, err := model.Normalize(raw)
		if err != nil {
			return fmt.Errorf("case %d in %s: %w", i, path, err)
		}
		if _, err := db.InsertCase(item); err != nil {
			return fmt.Errorf("insert case %q from %s: %w", item.Seed(), path, err)
		}
	}

	if err := db.SetImportedFileHash(path, hash); err != nil {
		return fmt.Errorf("record import for %s: %w", path, err)
	}
	slog.Info("imported case bank", "path", path, "count", len(bank.Items))
	return nil
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
