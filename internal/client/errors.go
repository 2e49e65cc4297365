package client

import "fmt"

// APIError — ответ движка с неуспешным HTTP-статусом.
//
// Несёт статус и тело ответа для диагностики. Транспортные ошибки
// (connection, timeout) возвращаются как есть, без обёртки в APIError.
type APIError struct {
	// Operation — имя операции: lock, complete, failure, bpmnError.
	Operation string

	// Status — HTTP-статус ответа.
	Status int

	// Body — тело ответа движка.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Operation, e.Status, e.Body)
}
