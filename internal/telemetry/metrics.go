package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики жизненного цикла external tasks.
//
// Счётчики терминальных исходов (Completed/FailureReported/BpmnErrorReported/
// Skipped) в сумме с lock failures дают количество обработанных tasks.
var (
	// PollCycles — количество выполненных циклов polling.
	PollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "operatask_poll_cycles_total",
		Help: "Number of completed polling cycles.",
	})

	// PollErrors — количество циклов, в которых fetch открытых tasks не удался.
	PollErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "operatask_poll_errors_total",
		Help: "Number of polling cycles that failed to fetch open external tasks.",
	})

	// TasksFetched — количество полученных открытых external tasks.
	TasksFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "operatask_tasks_fetched_total",
		Help: "Number of open external tasks received from the engine.",
	})

	// TasksCompleted — количество tasks, завершённых через complete.
	TasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "operatask_tasks_completed_total",
		Help: "Number of external tasks reported as completed.",
	})

	// TaskFailures — количество tasks, завершённых через failure report.
	TaskFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "operatask_task_failures_reported_total",
		Help: "Number of external tasks reported as failed.",
	})

	// BPMNErrors — количество tasks, завершённых через bpmnError report.
	BPMNErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "operatask_bpmn_errors_reported_total",
		Help: "Number of external tasks reported with a BPMN business error.",
	})

	// LockFailures — количество неудачных попыток lock.
	LockFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "operatask_lock_failures_total",
		Help: "Number of failed external task lock attempts.",
	})

	// TasksSkipped — количество tasks без зарегистрированного handler'а.
	TasksSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "operatask_tasks_skipped_total",
		Help: "Number of external tasks skipped because no handler is registered.",
	})
)
