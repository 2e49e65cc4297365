// Operatask Worker — воркер external tasks для BPMN-движков
// семейства Operaton/Camunda 7.
//
// Воркер:
//   - Периодически опрашивает движок на предмет открытых external tasks
//   - Захватывает task через lock и читает переменные процесса
//   - Выполняет зарегистрированный handler бизнес-логики
//   - Сообщает результат: complete, failure или bpmnError
//
// Конфигурация — переменные окружения OPERATASK_*; флаги командной
// строки перекрывают их.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/shaiso/Operatask/internal/client"
	"github.com/shaiso/Operatask/internal/config"
	"github.com/shaiso/Operatask/internal/registry"
	"github.com/shaiso/Operatask/internal/telemetry"
	"github.com/shaiso/Operatask/internal/variables"
	"github.com/shaiso/Operatask/internal/worker"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var (
		url            string
		username       string
		password       string
		workerID       string
		pollIntervalMs int64
		lockDurationMs int64
	)

	rootCmd := &cobra.Command{
		Use:           "operatask-worker",
		Short:         "Operatask — external task worker for Operaton engines",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := telemetry.SetupLogger()
			cfg := config.Load(logger)

			// Флаги перекрывают значения из окружения.
			if cmd.Flags().Changed("url") {
				cfg.URL = url
			}
			if cmd.Flags().Changed("username") {
				cfg.Username = username
			}
			if cmd.Flags().Changed("password") {
				cfg.Password = password
			}
			if cmd.Flags().Changed("worker-id") {
				cfg.ID = workerID
			}
			if cmd.Flags().Changed("poll-interval") {
				cfg.PollInterval = time.Duration(pollIntervalMs) * time.Millisecond
			}
			if cmd.Flags().Changed("lock-duration") {
				cfg.LockDuration = time.Duration(lockDurationMs) * time.Millisecond
			}

			return run(cfg, logger)
		},
	}

	rootCmd.Flags().StringVar(&url, "url", config.DefaultURL, "Engine base URL")
	rootCmd.Flags().StringVar(&username, "username", "", "HTTP basic auth username (empty disables auth)")
	rootCmd.Flags().StringVar(&password, "password", "", "HTTP basic auth password")
	rootCmd.Flags().StringVar(&workerID, "worker-id", "", "Worker id registered with the engine")
	rootCmd.Flags().Int64Var(&pollIntervalMs, "poll-interval", config.DefaultPollInterval.Milliseconds(), "Poll interval in milliseconds")
	rootCmd.Flags().Int64Var(&lockDurationMs, "lock-duration", config.DefaultLockDuration.Milliseconds(), "Lock duration in milliseconds")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting operatask-worker",
		"url", cfg.URL,
		"worker_id", cfg.ID,
		"poll_interval", cfg.PollInterval,
		"lock_duration", cfg.LockDuration,
	)

	if cfg.Username == "" || cfg.Password == "" {
		logger.Warn("no authentication set up; the engine should be protected by authentication in productive use")
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	api := client.New(cfg, logger)

	reg := registry.New(logger)
	registerHandlers(reg)

	w := worker.New(worker.Config{
		API:          api,
		Registry:     reg,
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	})

	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		return err
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("WORKER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	w.Stop()
	logger.Info("operatask-worker stopped")
	return nil
}

// registerHandlers привязывает handler'ы бизнес-логики к именам
// Service Tasks. Вызывается один раз при старте, до запуска воркера.
//
// Бизнес-логика собственного процесса регистрируется здесь:
//
//	reg.Register("check_invoice", checkInvoice)
func registerHandlers(reg *registry.Registry) {
	// Диагностический handler: завершает task без выходных переменных.
	reg.Register("example_echo", func(_ variables.Variables) (variables.OutVariables, error) {
		return variables.OutVariables{}, nil
	})
}
