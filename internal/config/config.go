package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dreaeast/worker-keep-online/internal/entity"
	"github.com/Dreaeast/worker-keep-online/internal/platform"
	"github.com/Dreaeast/worker-keep-online/internal/policy"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultMaxRetries     = 2
	defaultWaitMin        = 2
	defaultWaitMax        = 5
	defaultGitHubBranch   = "main"
)

// DefaultWindows are used when TIME1..TIME3 are absent or malformed.
var DefaultWindows = map[entity.GroupID]policy.Window{
	entity.Group1: {Start: 2, End: 5},
	entity.Group2: {Start: 0, End: 6},
	entity.Group3: {Start: 1, End: 6},
}

// DefaultFiles are the group list locations.
var DefaultFiles = map[entity.GroupID]string{
	entity.GroupPrimary: "/tmp/sub/url.yaml",
	entity.Group1:       "/tmp/sub/url1.yaml",
	entity.Group2:       "/tmp/sub/url2.yaml",
	entity.Group3:       "/tmp/sub/url3.yaml",
}

var windowVars = map[entity.GroupID]string{
	entity.Group1: "TIME1",
	entity.Group2: "TIME2",
	entity.Group3: "TIME3",
}

var fileVars = map[entity.GroupID]string{
	entity.GroupPrimary: "KEEPALIVE_URL_FILE",
	entity.Group1:       "KEEPALIVE_URL1_FILE",
	entity.Group2:       "KEEPALIVE_URL2_FILE",
	entity.Group3:       "KEEPALIVE_URL3_FILE",
}

// LogLevel is shared with the handler installed by the console binary.
var LogLevel = new(slog.LevelVar)

type Config struct {
	Debug              bool
	Timezone           string
	Windows            map[entity.GroupID]policy.Window
	Files              map[entity.GroupID]string
	WaitMin            int
	WaitMax            int
	RequestTimeout     time.Duration
	MaxRetries         int
	PlatformURLs       []string
	EnvURLs            []string
	GitHubRepo         string
	GitHubToken        string
	GitHubBranch       string
	DbConnectionString string
	BotToken           string
	NotificationChatID string
	SendSummary        bool
}

var config *Config

func GetConfig() *Config {
	if config != nil {
		return config
	}
	config = Load(os.LookupEnv)

	if config.Debug {
		LogLevel.Set(slog.LevelDebug)
	}

	slog.Debug("configuration parameters",
		"KEEPALIVE_DEBUG", config.Debug,
		"KEEPALIVE_TIMEZONE", config.Timezone,
		"windows", config.Windows,
		"files", config.Files,
		"wait_range", []int{config.WaitMin, config.WaitMax},
		"KEEPALIVE_REQUEST_TIMEOUT", config.RequestTimeout,
		"KEEPALIVE_MAX_RETRIES", config.MaxRetries,
		"platform_urls", config.PlatformURLs,
		"env_urls_count", len(config.EnvURLs),
		"GITHUB_REPO", config.GitHubRepo,
		"GITHUB_BRANCH", config.GitHubBranch,
		"database", config.DbConnectionString != "",
		"telegram", config.TelegramEnabled(),
		"SEND_SUMMARY", config.SendSummary)

	return config
}

// Load reads the configuration through lookup, which has the signature of
// os.LookupEnv. Malformed values are logged and replaced by defaults.
func Load(lookup platform.LookupFunc) *Config {
	c := &Config{
		Windows: make(map[entity.GroupID]policy.Window, len(DefaultWindows)),
		Files:   make(map[entity.GroupID]string, len(DefaultFiles)),
	}

	c.Debug = getBool(lookup, "KEEPALIVE_DEBUG")
	c.Timezone = getEnv(lookup, "KEEPALIVE_TIMEZONE", policy.DefaultTimezone)

	for group, def := range DefaultWindows {
		if value, ok := lookup(windowVars[group]); ok {
			c.Windows[group] = policy.ParseWindowOr(value, def)
		} else {
			c.Windows[group] = def
		}
	}
	for group, def := range DefaultFiles {
		c.Files[group] = getEnv(lookup, fileVars[group], def)
	}

	c.WaitMin, c.WaitMax = defaultWaitMin, defaultWaitMax
	if value, ok := lookup("KEEPALIVE_WAIT_RANGE"); ok {
		if lo, hi, ok := parseRange(value); ok {
			c.WaitMin, c.WaitMax = lo, hi
		} else {
			slog.Warn("malformed wait range, using default", "value", value)
		}
	}

	c.RequestTimeout = getDuration(lookup, "KEEPALIVE_REQUEST_TIMEOUT", defaultRequestTimeout)
	c.MaxRetries = getInt(lookup, "KEEPALIVE_MAX_RETRIES", defaultMaxRetries)

	c.PlatformURLs = platform.URLs(platform.DefaultRules, lookup)
	c.EnvURLs = indexedValues(lookup, "URL_")

	// GitHub source
	c.GitHubRepo = getEnv(lookup, "GITHUB_REPO", "")
	c.GitHubToken = getEnv(lookup, "GITHUB_TOKEN", "")
	c.GitHubBranch = getEnv(lookup, "GITHUB_BRANCH", defaultGitHubBranch)

	// Database source
	c.DbConnectionString = getEnv(lookup, "KEEPALIVE_DB_STRING", "")

	// Telegram notifications
	c.BotToken = getEnv(lookup, "TG_TOKEN", "")
	c.NotificationChatID = getEnv(lookup, "TG_ID", "")
	c.SendSummary = getBool(lookup, "SEND_SUMMARY")

	return c
}

// TelegramEnabled reports whether both the bot token and recipients are set.
func (c *Config) TelegramEnabled() bool {
	return c.BotToken != "" && c.NotificationChatID != ""
}

func getEnv(lookup platform.LookupFunc, key, defaultValue string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getBool(lookup platform.LookupFunc, key string) bool {
	value, _ := lookup(key)
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "true" || value == "1"
}

func getInt(lookup platform.LookupFunc, key string, defaultValue int) int {
	if str, ok := lookup(key); ok && str != "" {
		if value, err := strconv.Atoi(strings.TrimSpace(str)); err == nil && value >= 0 {
			return value
		}
		slog.Warn("malformed integer, using default", "key", key, "value", str, "default", defaultValue)
	}
	return defaultValue
}

// getDuration accepts Go durations ("45s") and bare seconds ("45").
func getDuration(lookup platform.LookupFunc, key string, defaultValue time.Duration) time.Duration {
	str, ok := lookup(key)
	if !ok || str == "" {
		return defaultValue
	}
	str = strings.TrimSpace(str)
	if value, err := time.ParseDuration(str); err == nil && value > 0 {
		return value
	}
	if seconds, err := strconv.Atoi(str); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	slog.Warn("malformed duration, using default", "key", key, "value", str, "default", defaultValue)
	return defaultValue
}

func parseRange(value string) (int, int, bool) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || lo < 0 || hi < lo {
		return 0, 0, false
	}
	return lo, hi, true
}

// indexedValues reads PREFIX1, PREFIX2, ... until the first missing index.
func indexedValues(lookup platform.LookupFunc, prefix string) []string {
	var values []string
	for i := 1; ; i++ {
		value, ok := lookup(prefix + strconv.Itoa(i))
		if !ok || strings.TrimSpace(value) == "" {
			return values
		}
		values = append(values, strings.TrimSpace(value))
	}
}
