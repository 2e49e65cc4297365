package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/Operatask/internal/domain"
	"github.com/shaiso/Operatask/internal/registry"
	"github.com/shaiso/Operatask/internal/telemetry"
	"github.com/shaiso/Operatask/internal/variables"
)

// defaultPollInterval — интервал polling по умолчанию.
const defaultPollInterval = 500 * time.Millisecond

// EngineAPI — операции external-task API, которые использует воркер.
//
// Реализуется client.Client; тесты подставляют скриптованный fake.
type EngineAPI interface {
	FetchOpenTasks(ctx context.Context) ([]domain.ExternalTask, error)
	Lock(ctx context.Context, taskID string) error
	FetchVariables(ctx context.Context, processInstanceID string) (variables.Variables, error)
	Complete(ctx context.Context, taskID string, vars variables.OutVariables) error
	ReportFailure(ctx context.Context, taskID, message, details string, retries int, retryTimeout int64) error
	ReportBPMNError(ctx context.Context, taskID, code, message string, vars variables.OutVariables) error
}

// Worker проводит external tasks через их жизненный цикл.
//
// Worker — stateless компонент: между циклами polling ничего не
// сохраняется, каждый цикл работает со свежим списком открытых tasks.
// Единственная разделяемая структура — реестр handler'ов, который
// после старта только читается.
type Worker struct {
	api      EngineAPI
	registry *registry.Registry

	pollInterval time.Duration

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Worker.
type Config struct {
	// API — клиент движка (обязательно).
	API EngineAPI

	// Registry — реестр handler'ов (опционально; если nil — пустой реестр).
	Registry *registry.Registry

	// PollInterval — интервал polling (default: 500ms).
	PollInterval time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := cfg.Registry
	if reg == nil {
		reg = registry.New(logger)
	}

	return &Worker{
		api:          cfg.API,
		registry:     reg,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Start запускает polling-цикл в отдельной горутине.
//
// Цикл кооперативный: завершается при отмене контекста или по Stop().
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting worker",
		"poll_interval", w.pollInterval,
		"handlers", w.registry.Names(),
	)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx)
	}()

	w.logger.Info("worker started")
	return nil
}

// Stop останавливает Worker и дожидается завершения текущего цикла.
func (w *Worker) Stop() {
	w.stoppedMu.Lock()
	w.stopped = true
	w.stoppedMu.Unlock()

	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}

	w.wg.Wait()

	w.logger.Info("worker stopped")
}

// IsStopped проверяет, остановлен ли Worker.
func (w *Worker) IsStopped() bool {
	w.stoppedMu.RLock()
	defer w.stoppedMu.RUnlock()
	return w.stopped
}

// pollLoop — внешний цикл polling.
// Первый poll выполняется сразу, дальше по ticker'у.
func (w *Worker) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll выполняет один цикл: fetch открытых tasks и последовательная
// обработка каждого. Ошибка fetch завершает только текущий цикл.
func (w *Worker) poll(ctx context.Context) {
	telemetry.PollCycles.Inc()

	tasks, err := w.api.FetchOpenTasks(ctx)
	if err != nil {
		telemetry.PollErrors.Inc()
		w.logger.Error("failed to fetch open external tasks", "error", err)
		return
	}

	telemetry.TasksFetched.Add(float64(len(tasks)))
	w.logger.Info("received open external tasks", "count", len(tasks))

	for i := range tasks {
		if ctx.Err() != nil {
			return
		}
		phase := w.processTask(ctx, &tasks[i])
		w.logger.Debug("external task reached terminal phase",
			"task_id", tasks[i].ID,
			"phase", phase,
		)
	}
}

// processTask проводит один task через фазы жизненного цикла
// и возвращает достигнутую терминальную фазу.
//
// Переходы строго последовательные, без backtracking:
//
//	DISCOVERED → LOCKED → VARIABLES_FETCHED → DISPATCHED → терминальная фаза
func (w *Worker) processTask(ctx context.Context, task *domain.ExternalTask) domain.TaskPhase {
	logger := telemetry.WithTaskID(w.logger, task.ID)
	logger = telemetry.WithActivityID(logger, task.ActivityID)

	// DISCOVERED → LOCKED.
	// Неудачный lock оставляет task другим воркерам и следующему циклу.
	if err := w.api.Lock(ctx, task.ID); err != nil {
		telemetry.LockFailures.Inc()
		logger.Warn("could not lock external task", "error", err)
		return domain.PhaseAbandoned
	}

	// LOCKED → VARIABLES_FETCHED.
	// Ошибка чтения переменных деградирует до пустого набора.
	vars, err := w.api.FetchVariables(ctx, task.ProcessInstanceID)
	if err != nil {
		logger.Error("failed to fetch variables, continuing with empty set", "error", err)
		vars = variables.Variables{}
	}

	// VARIABLES_FETCHED → DISPATCHED.
	// Без handler'а отчёт не отправляется: lock истечёт сам,
	// и движок снова предложит task.
	handler, ok := w.registry.Find(task.ActivityID)
	if !ok {
		telemetry.TasksSkipped.Inc()
		logger.Warn("no handler registered for activity, skipping task")
		return domain.PhaseSkipped
	}

	logger.Debug("dispatching handler", "variables", len(vars))
	outputs, handlerErr := handler(vars)

	// DISPATCHED → терминальная фаза по классификации результата.
	// Ошибка самого отчёта фиксируется, но не повторяется.
	switch {
	case handlerErr == nil:
		if err := w.api.Complete(ctx, task.ID, outputs); err != nil {
			logger.Error("could not complete external task", "error", err)
		} else {
			telemetry.TasksCompleted.Inc()
			logger.Info("completed external task")
		}
		return domain.PhaseCompleted

	case isBPMNError(handlerErr):
		bpmnErr := asBPMNError(handlerErr)
		logger.Info("handler raised a BPMN business error", "code", bpmnErr.Code)
		if err := w.api.ReportBPMNError(ctx, task.ID, bpmnErr.Code, bpmnErr.Message, nil); err != nil {
			logger.Error("could not report BPMN error", "error", err)
		} else {
			telemetry.BPMNErrors.Inc()
		}
		return domain.PhaseBPMNErrorReported

	default:
		logger.Error("handler execution failed", "error", handlerErr)
		// retries=0: повторную доставку воркер не запрашивает.
		if err := w.api.ReportFailure(ctx, task.ID, handlerErr.Error(), "", 0, 0); err != nil {
			logger.Error("could not report external task failure", "error", err)
		} else {
			telemetry.TaskFailures.Inc()
		}
		return domain.PhaseFailureReported
	}
}

func isBPMNError(err error) bool {
	var bpmnErr *domain.BPMNError
	return errors.As(err, &bpmnErr)
}

func asBPMNError(err error) *domain.BPMNError {
	var bpmnErr *domain.BPMNError
	errors.As(err, &bpmnErr)
	return bpmnErr
}
