// Package config загружает конфигурацию воркера из переменных окружения.
//
// Все переменные имеют префикс OPERATASK_ и документированные значения
// по умолчанию, поэтому загрузка никогда не завершается ошибкой.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Значения по умолчанию.
const (
	DefaultURL          = "http://localhost:8080"
	DefaultPollInterval = 500 * time.Millisecond
	DefaultLockDuration = 60 * time.Second
)

// Config — конфигурация воркера.
//
// Неизменяемый объект: заполняется один раз при старте процесса
// и дальше только читается.
type Config struct {
	// URL — базовый адрес движка (OPERATASK_URL).
	URL string

	// Username — имя пользователя для HTTP Basic auth (OPERATASK_USERNAME).
	// Пустое значение отключает аутентификацию.
	Username string

	// Password — пароль для HTTP Basic auth (OPERATASK_PASSWORD).
	Password string

	// PollInterval — интервал polling (OPERATASK_POLL_INTERVAL, миллисекунды).
	PollInterval time.Duration

	// ID — идентификатор воркера, под которым захватываются locks
	// (OPERATASK_ID).
	ID string

	// LockDuration — срок аренды lock'а (OPERATASK_LOCK_DURATION, миллисекунды).
	LockDuration time.Duration
}

// Load читает конфигурацию из окружения.
//
// Невалидные числовые значения деградируют до значений по умолчанию
// с предупреждением в лог. Если OPERATASK_ID не задан, генерируется
// уникальный id: общий id у нескольких воркеров приводит к спорным
// lock'ам на стороне движка.
func Load(logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := Config{
		URL:          DefaultURL,
		PollInterval: DefaultPollInterval,
		LockDuration: DefaultLockDuration,
	}

	if v := os.Getenv("OPERATASK_URL"); v != "" {
		cfg.URL = v
	}
	cfg.Username = os.Getenv("OPERATASK_USERNAME")
	cfg.Password = os.Getenv("OPERATASK_PASSWORD")

	cfg.PollInterval = durationMs(logger, "OPERATASK_POLL_INTERVAL", DefaultPollInterval)
	cfg.LockDuration = durationMs(logger, "OPERATASK_LOCK_DURATION", DefaultLockDuration)

	cfg.ID = os.Getenv("OPERATASK_ID")
	if cfg.ID == "" {
		cfg.ID = "operatask-worker-" + uuid.NewString()
	}

	return cfg
}

// durationMs читает длительность в миллисекундах из переменной окружения.
func durationMs(logger *slog.Logger, env string, def time.Duration) time.Duration {
	v := os.Getenv(env)
	if v == "" {
		return def
	}

	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil || ms <= 0 {
		logger.Warn("invalid duration value, using default",
			"env", env,
			"value", v,
			"default", def,
		)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
