package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"

	"findfriends-server/game"
)

// RulesConfig holds the tunable table rules.
type RulesConfig struct {
	MinBid               int `json:"min_bid"`
	WinScore             int `json:"win_score"`
	BottomMultiplierTeam int `json:"bottom_multiplier_team"`
	BottomMultiplierSolo int `json:"bottom_multiplier_solo"`
	BottomMultiplierPair int `json:"bottom_multiplier_pair"`
}

// Config holds all configurable server parameters.
type Config struct {
	Rules RulesConfig `json:"rules"`

	MaxNameLength      int    `json:"max_name_length"`
	WSPort             int    `json:"ws_port"`
	ActionTimeoutMS    int    `json:"action_timeout_ms"`     // how long a client waits for its room to answer
	RoomIdleTimeoutSec int    `json:"room_idle_timeout_sec"` // room closes after everyone has been gone this long
	RNGSeed            int64  `json:"rng_seed"`              // 0 seeds rooms from the clock
	LogLevel           string `json:"log_level"`

	DatabaseURL string `json:"database_url"`
	AuthBaseURL string `json:"auth_base_url"`
}

// Defaults returns a Config with the house rules and server defaults.
func Defaults() *Config {
	rules := game.DefaultRules()
	return &Config{
		Rules: RulesConfig{
			MinBid:               rules.MinBid,
			WinScore:             rules.WinScore,
			BottomMultiplierTeam: rules.BottomMultiplierTeam,
			BottomMultiplierSolo: rules.BottomMultiplierSolo,
			BottomMultiplierPair: rules.BottomMultiplierPair,
		},
		MaxNameLength:      24,
		WSPort:             8080,
		ActionTimeoutMS:    2000,
		RoomIdleTimeoutSec: 300,
		LogLevel:           "info",
	}
}

// GameRules converts the rules section into the engine's rule set.
func (c *Config) GameRules() game.Rules {
	r := game.DefaultRules()
	r.MinBid = c.Rules.MinBid
	r.WinScore = c.Rules.WinScore
	r.BottomMultiplierTeam = c.Rules.BottomMultiplierTeam
	r.BottomMultiplierSolo = c.Rules.BottomMultiplierSolo
	r.BottomMultiplierPair = c.Rules.BottomMultiplierPair
	return r
}

// Load reads configuration from an optional JSON file at path (config.json
// when empty), then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load(path string) *Config {
	cfg := Defaults()
	if path == "" {
		path = "config.json"
	}

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			slog.Warn("failed to parse config file", "tag", "config", "path", path, "err", err)
		}
	}

	// Environment variable overrides
	overrideInt(&cfg.Rules.MinBid, "MIN_BID")
	overrideInt(&cfg.Rules.WinScore, "WIN_SCORE")
	overrideInt(&cfg.Rules.BottomMultiplierTeam, "BOTTOM_MULTIPLIER_TEAM")
	overrideInt(&cfg.Rules.BottomMultiplierSolo, "BOTTOM_MULTIPLIER_SOLO")
	overrideInt(&cfg.Rules.BottomMultiplierPair, "BOTTOM_MULTIPLIER_PAIR")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideInt(&cfg.ActionTimeoutMS, "ACTION_TIMEOUT_MS")
	overrideInt(&cfg.RoomIdleTimeoutSec, "ROOM_IDLE_TIMEOUT_SEC")
	overrideInt64(&cfg.RNGSeed, "RNG_SEED")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.AuthBaseURL, "AUTH_BASE_URL")

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			slog.Warn("invalid environment value", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideInt64(field *int64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			*field = n
		} else {
			slog.Warn("invalid environment value", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
