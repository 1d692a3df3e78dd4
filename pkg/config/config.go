package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rhyrak/go-timetable/internal/scheduler"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Log       LogConfig
	Scheduler scheduler.Configuration
	Database  DatabaseConfig
	Redis     RedisConfig

	EnableStore bool
	EnableCache bool
	CacheTTL    time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Load reads configuration from the environment, a .env file and, when path
// is set, the given config file (YAML or env format by extension).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = scheduler.Configuration{
		CoursesFile:     v.GetString("COURSES_FILE"),
		RoomsFile:       v.GetString("ROOMS_FILE"),
		SlotsFile:       v.GetString("SLOTS_FILE"),
		BusyFile:        v.GetString("BUSY_FILE"),
		ExportDir:       v.GetString("EXPORT_DIR"),
		Delimiter:       parseDelimiter(v.GetString("CSV_DELIMITER"), ','),
		Seed:            v.GetUint64("SCHEDULER_SEED"),
		Days:            splitAndTrim(v.GetString("SCHEDULER_DAYS")),
		ExcludedSlots:   splitAndTrim(v.GetString("SCHEDULER_EXCLUDED_SLOTS")),
		MaxAttempts:     v.GetInt("SCHEDULER_MAX_ATTEMPTS"),
		BreakAfterSlots: v.GetInt("SCHEDULER_BREAK_AFTER_SLOTS"),
		LectureBlock:    v.GetFloat64("SCHEDULER_LECTURE_BLOCK"),
		TutorialBlock:   v.GetFloat64("SCHEDULER_TUTORIAL_BLOCK"),
		PracticalBlock:  v.GetFloat64("SCHEDULER_PRACTICAL_BLOCK"),
		RoomPick:        scheduler.RoomPick(strings.ToLower(v.GetString("SCHEDULER_ROOM_PICK"))),
	}
	if cfg.Scheduler.RoomPick != scheduler.RoomPickCourse {
		cfg.Scheduler.RoomPick = scheduler.RoomPickSeed
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.EnableStore = v.GetBool("ENABLE_STORE")
	cfg.EnableCache = v.GetBool("ENABLE_CACHE")
	cfg.CacheTTL = parseDuration(v.GetString("CACHE_TTL"), 24*time.Hour)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := scheduler.NewDefaultConfiguration()

	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("COURSES_FILE", d.CoursesFile)
	v.SetDefault("ROOMS_FILE", d.RoomsFile)
	v.SetDefault("SLOTS_FILE", d.SlotsFile)
	v.SetDefault("BUSY_FILE", "")
	v.SetDefault("EXPORT_DIR", d.ExportDir)
	v.SetDefault("CSV_DELIMITER", string(d.Delimiter))

	v.SetDefault("SCHEDULER_SEED", d.Seed)
	v.SetDefault("SCHEDULER_DAYS", strings.Join(d.Days, ","))
	v.SetDefault("SCHEDULER_EXCLUDED_SLOTS", strings.Join(d.ExcludedSlots, ","))
	v.SetDefault("SCHEDULER_MAX_ATTEMPTS", d.MaxAttempts)
	v.SetDefault("SCHEDULER_BREAK_AFTER_SLOTS", d.BreakAfterSlots)
	v.SetDefault("SCHEDULER_LECTURE_BLOCK", d.LectureBlock)
	v.SetDefault("SCHEDULER_TUTORIAL_BLOCK", d.TutorialBlock)
	v.SetDefault("SCHEDULER_PRACTICAL_BLOCK", d.PracticalBlock)
	v.SetDefault("SCHEDULER_ROOM_PICK", string(d.RoomPick))

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_STORE", false)
	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "24h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func parseDelimiter(raw string, fallback rune) rune {
	if raw == `\t` {
		return '\t'
	}
	r, size := utf8.DecodeRuneInString(raw)
	if size == 0 || r == utf8.RuneError {
		return fallback
	}
	return r
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
