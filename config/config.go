// Package config reads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Narrator backends.
const (
	NarratorNone        = "none"
	NarratorGemini      = "gemini"
	NarratorHuggingFace = "huggingface"
)

// Defaults.
const (
	DefaultGeminiModel     = "gemini-2.5-flash"
	DefaultNarratorTimeout = 8 * time.Second
)

// Config holds every setting the program reads at startup.
type Config struct {
	Narrator        string
	GeminiAPIKey    string
	GeminiModel     string
	HFToken         string
	HFModelURL      string
	NarratorTimeout time.Duration
	DBPath          string // empty disables run records
	SaveDir         string
	HintSeed        int64
	HintSeedSet     bool
	LogLevel        slog.Level
}

// Error reports an invalid setting.
type Error struct {
	Var   string
	Value string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: invalid %s=%q: %v", e.Var, e.Value, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Load reads envFile (if it exists) and the process environment. Process
// variables take precedence over the file. An empty envFile means ".env".
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	fileVars, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: reading %s: %w", envFile, err)
	}
	return Parse(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	})
}

// Parse builds a Config from a variable lookup.
func Parse(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		Narrator:        NarratorNone,
		GeminiAPIKey:    get("GEMINI_API_KEY"),
		GeminiModel:     DefaultGeminiModel,
		HFToken:         get("HUGGINGFACE_API_TOKEN"),
		HFModelURL:      get("HUGGINGFACE_MODEL_URL"),
		NarratorTimeout: DefaultNarratorTimeout,
		DBPath:          get("LOCKEDSTUDY_DB"),
		SaveDir:         get("LOCKEDSTUDY_SAVE_DIR"),
		LogLevel:        slog.LevelInfo,
	}

	if v := get("LOCKEDSTUDY_NARRATOR"); v != "" {
		switch strings.ToLower(v) {
		case NarratorNone, NarratorGemini, NarratorHuggingFace:
			cfg.Narrator = strings.ToLower(v)
		default:
			return nil, &Error{Var: "LOCKEDSTUDY_NARRATOR", Value: v,
				Err: errors.New("want none, gemini or huggingface")}
		}
	}

	if v := get("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}

	if v := get("LOCKEDSTUDY_NARRATOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, &Error{Var: "LOCKEDSTUDY_NARRATOR_TIMEOUT", Value: v, Err: err}
		}
		if d <= 0 {
			return nil, &Error{Var: "LOCKEDSTUDY_NARRATOR_TIMEOUT", Value: v, Err: errors.New("must be positive")}
		}
		cfg.NarratorTimeout = d
	}

	if v := get("LOCKEDSTUDY_HINT_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, &Error{Var: "LOCKEDSTUDY_HINT_SEED", Value: v, Err: err}
		}
		cfg.HintSeed = n
		cfg.HintSeedSet = true
	}

	if v := get("LOCKEDSTUDY_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, &Error{Var: "LOCKEDSTUDY_LOG_LEVEL", Value: v, Err: err}
		}
	}

	if cfg.SaveDir == "" {
		cfg.SaveDir = defaultSaveDir()
	}
	return cfg, nil
}

func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".lockedstudy", "saves")
	}
	return filepath.Join(home, ".lockedstudy", "saves")
}
