package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	WordApp       string `json:"word_app"`
	ExcelApp      string `json:"excel_app"`
	PowerPointApp string `json:"powerpoint_app"`
	// ExternalApps maps an extension (without dot) to an application.
	ExternalApps map[string]string `json:"external_apps"`

	JumpTTL      string `json:"jump_ttl"`
	PersistJumps bool   `json:"persist_jumps"`
	StateDir     string `json:"state_dir"`
	BridgeAddr   string `json:"bridge_addr"`

	LinkQuery      string   `json:"link_query"`
	LinkExtensions []string `json:"link_extensions"`
}

const DefaultLinkQuery = `(inline_link (link_destination) @target) (uri_autolink) @target`

var defaultConfig = Config{
	JumpTTL:        "5m",
	PersistJumps:   false,
	LinkQuery:      DefaultLinkQuery,
	LinkExtensions: []string{".md", ".markdown"},
}

// Default returns a copy of the built-in configuration.
func Default() Config {
	cfg := defaultConfig
	cfg.LinkExtensions = append([]string(nil), defaultConfig.LinkExtensions...)
	return cfg
}

func Load(v any) (Config, error) {
	cfg := Default()
	if v == nil {
		return cfg, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("failed to marshal source: %w", err)
	}

	// only fields present in src will overwrite.
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal into Config: %w", err)
	}

	return cfg, nil
}

// LoadFromJSON reads JSON from r into a Config.
func LoadFromJSON(r io.Reader) (Config, error) {
	cfg := Default()

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// TTL parses JumpTTL. An empty, malformed or non-positive value yields
// the five minute default.
func (c Config) TTL() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.JumpTTL))
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// Environment variables overriding file and client settings.
const (
	EnvWordApp       = "DOCNAV_WORD_APP"
	EnvExcelApp      = "DOCNAV_EXCEL_APP"
	EnvPowerPointApp = "DOCNAV_POWERPOINT_APP"
	EnvJumpTTL       = "DOCNAV_JUMP_TTL"
	EnvStateDir      = "DOCNAV_STATE_DIR"
	EnvBridgeAddr    = "DOCNAV_BRIDGE_ADDR"
)

// LoadEnvFiles loads .env style files into the process environment
// without overriding variables that are already set. Missing files are
// ignored.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv returns c with every set DOCNAV_* variable applied.
func (c Config) ApplyEnv() Config {
	overrides := []struct {
		name string
		dst  *string
	}{
		{EnvWordApp, &c.WordApp},
		{EnvExcelApp, &c.ExcelApp},
		{EnvPowerPointApp, &c.PowerPointApp},
		{EnvJumpTTL, &c.JumpTTL},
		{EnvStateDir, &c.StateDir},
		{EnvBridgeAddr, &c.BridgeAddr},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.name); ok && v != "" {
			*o.dst = v
		}
	}
	return c
}
