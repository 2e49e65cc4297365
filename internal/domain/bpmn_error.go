package domain

import "fmt"

// BPMNError — business error BPMN-процесса.
//
// Отличается от технической ошибки: это смоделированная ветка отказа,
// которую диаграмма процесса может поймать и обработать. Handler
// возвращает *BPMNError, когда процесс должен пойти по error-ветке;
// воркер отправляет его через bpmnError endpoint вместо failure.
type BPMNError struct {
	// Code — обязательный код ошибки, по нему диаграмма выбирает ветку.
	Code string

	// Message — опциональное человекочитаемое описание.
	Message string
}

// NewBPMNError создаёт business error с кодом и описанием.
func NewBPMNError(code, message string) *BPMNError {
	return &BPMNError{Code: code, Message: message}
}

// NewBPMNErrorCode создаёт business error только с кодом.
func NewBPMNErrorCode(code string) *BPMNError {
	return &BPMNError{Code: code}
}

func (e *BPMNError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("BPMN error %s", e.Code)
	}
	return fmt.Sprintf("BPMN error %s: %s", e.Code, e.Message)
}
