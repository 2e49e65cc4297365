// Package client — REST-клиент external-task API BPMN-движка.
//
// Оборачивает операции протокола: список открытых tasks, lock,
// чтение переменных и три варианта отчёта о результате. Retry и
// backoff внутри клиента нет — политика повторов целиком на стороне
// движка и polling-цикла.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"github.com/shaiso/Operatask/internal/config"
	"github.com/shaiso/Operatask/internal/domain"
	"github.com/shaiso/Operatask/internal/variables"
)

// Client — HTTP-клиент движка.
//
// Все операции используют HTTP Basic auth, если в конфигурации задан
// непустой username; с пустым username запросы идут без аутентификации.
type Client struct {
	http         *resty.Client
	workerID     string
	lockDuration int64 // миллисекунды, протокольная аренда lock'а
	logger       *slog.Logger
}

// New создаёт клиент для движка по конфигурации воркера.
func New(cfg config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	hc := resty.New().SetBaseURL(cfg.URL)
	if cfg.Username != "" {
		hc.SetBasicAuth(cfg.Username, cfg.Password)
	}

	return &Client{
		http:         hc,
		workerID:     cfg.ID,
		lockDuration: cfg.LockDuration.Milliseconds(),
		logger:       logger,
	}
}

// FetchOpenTasks возвращает список открытых external tasks.
//
// Транспортная ошибка и ошибка разбора JSON-конверта одинаково фатальны
// для этого вызова — без списка tasks цикл продолжать нечем.
func (c *Client) FetchOpenTasks(ctx context.Context) ([]domain.ExternalTask, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/engine-rest/external-task")
	if err != nil {
		return nil, fmt.Errorf("fetch open external tasks: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Operation: "fetch", Status: resp.StatusCode(), Body: resp.String()}
	}

	var tasks []domain.ExternalTask
	if err := json.Unmarshal(resp.Body(), &tasks); err != nil {
		return nil, fmt.Errorf("parse open external tasks: %w", err)
	}

	c.logger.Debug("fetched open external tasks", "count", len(tasks))
	return tasks, nil
}

type lockRequest struct {
	WorkerID     string `json:"workerId"`
	LockDuration int64  `json:"lockDuration"`
}

// Lock захватывает external task на сконфигурированный срок аренды.
func (c *Client) Lock(ctx context.Context, taskID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(lockRequest{WorkerID: c.workerID, LockDuration: c.lockDuration}).
		Post(fmt.Sprintf("/engine-rest/external-task/%s/lock", taskID))
	if err != nil {
		return fmt.Errorf("lock external task %s: %w", taskID, err)
	}
	if resp.IsError() {
		return &APIError{Operation: "lock", Status: resp.StatusCode(), Body: resp.String()}
	}

	c.logger.Debug("locked external task",
		"task_id", taskID,
		"lock_duration_ms", c.lockDuration,
	)
	return nil
}

// FetchVariables читает переменные process instance.
//
// Наружу уходят только транспортные ошибки: тело ответа отдаётся
// толерантному парсеру, который деградирует до пустого набора
// вместо ошибки. Статус ответа намеренно не проверяется — тело
// с ошибкой просто не пройдёт ни одну стратегию парсера.
func (c *Client) FetchVariables(ctx context.Context, processInstanceID string) (variables.Variables, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("processInstanceIdIn", processInstanceID).
		Get("/engine-rest/variable-instance")
	if err != nil {
		return nil, fmt.Errorf("fetch variables for process instance %s: %w", processInstanceID, err)
	}

	return variables.Parse(resp.String()), nil
}

type completeRequest struct {
	WorkerID  string                 `json:"workerId"`
	Variables variables.OutVariables `json:"variables"`
}

// Complete сообщает движку об успешном завершении task.
func (c *Client) Complete(ctx context.Context, taskID string, vars variables.OutVariables) error {
	if vars == nil {
		vars = variables.OutVariables{}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(completeRequest{WorkerID: c.workerID, Variables: vars}).
		Post(fmt.Sprintf("/engine-rest/external-task/%s/complete", taskID))
	if err != nil {
		return fmt.Errorf("complete external task %s: %w", taskID, err)
	}
	if resp.IsError() {
		return &APIError{Operation: "complete", Status: resp.StatusCode(), Body: resp.String()}
	}

	c.logger.Debug("completed external task", "task_id", taskID)
	return nil
}

type failureRequest struct {
	WorkerID     string `json:"workerId"`
	ErrorMessage string `json:"errorMessage"`
	ErrorDetails string `json:"errorDetails,omitempty"`
	Retries      int    `json:"retries"`
	RetryTimeout int64  `json:"retryTimeout"`
}

// ReportFailure сообщает движку о технической ошибке handler'а.
//
// retries определяет, сколько раз движок предложит task повторно;
// воркер всегда передаёт 0 — повторная доставка не запрашивается.
func (c *Client) ReportFailure(ctx context.Context, taskID, message, details string, retries int, retryTimeout int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(failureRequest{
			WorkerID:     c.workerID,
			ErrorMessage: message,
			ErrorDetails: details,
			Retries:      retries,
			RetryTimeout: retryTimeout,
		}).
		Post(fmt.Sprintf("/engine-rest/external-task/%s/failure", taskID))
	if err != nil {
		return fmt.Errorf("report failure for external task %s: %w", taskID, err)
	}
	if resp.IsError() {
		return &APIError{Operation: "failure", Status: resp.StatusCode(), Body: resp.String()}
	}

	c.logger.Debug("reported external task failure", "task_id", taskID)
	return nil
}

type bpmnErrorRequest struct {
	WorkerID     string                 `json:"workerId"`
	ErrorCode    string                 `json:"errorCode"`
	ErrorMessage string                 `json:"errorMessage,omitempty"`
	Variables    variables.OutVariables `json:"variables,omitempty"`
}

// ReportBPMNError сообщает движку business error процесса.
func (c *Client) ReportBPMNError(ctx context.Context, taskID, code, message string, vars variables.OutVariables) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(bpmnErrorRequest{
			WorkerID:     c.workerID,
			ErrorCode:    code,
			ErrorMessage: message,
			Variables:    vars,
		}).
		Post(fmt.Sprintf("/engine-rest/external-task/%s/bpmnError", taskID))
	if err != nil {
		return fmt.Errorf("report BPMN error for external task %s: %w", taskID, err)
	}
	if resp.IsError() {
		return &APIError{Operation: "bpmnError", Status: resp.StatusCode(), Body: resp.String()}
	}

	c.logger.Debug("reported BPMN error", "task_id", taskID, "code", code)
	return nil
}
