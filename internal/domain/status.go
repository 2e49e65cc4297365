package domain

// TaskPhase — фаза обработки external task внутри одного цикла polling.
//
// Жизненный цикл, строго последовательный:
//
//	DISCOVERED → LOCKED → VARIABLES_FETCHED → DISPATCHED → COMPLETED
//	                                                     ↘ FAILURE_REPORTED
//	                                                     ↘ BPMN_ERROR_REPORTED
//
// Побочные терминальные исходы без отчёта движку:
//
//	DISCOVERED → ABANDONED (lock не удался, task вернётся в следующем цикле)
//	VARIABLES_FETCHED → SKIPPED (нет handler'а; lock истечёт сам)
//
// Фаза живёт только внутри цикла — между циклами состояние не сохраняется.
type TaskPhase string

const (
	// PhaseDiscovered — task получен из списка открытых.
	PhaseDiscovered TaskPhase = "DISCOVERED"

	// PhaseLocked — lock успешно установлен.
	PhaseLocked TaskPhase = "LOCKED"

	// PhaseVariablesFetched — переменные прочитаны (возможно, пустые).
	PhaseVariablesFetched TaskPhase = "VARIABLES_FETCHED"

	// PhaseDispatched — handler вызван.
	PhaseDispatched TaskPhase = "DISPATCHED"

	// PhaseCompleted — результат отправлен через complete.
	PhaseCompleted TaskPhase = "COMPLETED"

	// PhaseFailureReported — техническая ошибка отправлена через failure.
	PhaseFailureReported TaskPhase = "FAILURE_REPORTED"

	// PhaseBPMNErrorReported — business error отправлен через bpmnError.
	PhaseBPMNErrorReported TaskPhase = "BPMN_ERROR_REPORTED"

	// PhaseAbandoned — task пропущен в этом цикле из-за неудачного lock.
	PhaseAbandoned TaskPhase = "ABANDONED"

	// PhaseSkipped — task пропущен: нет зарегистрированного handler'а.
	PhaseSkipped TaskPhase = "SKIPPED"
)

// IsTerminal возвращает true, если фаза финальная для текущего цикла.
func (p TaskPhase) IsTerminal() bool {
	switch p {
	case PhaseCompleted, PhaseFailureReported, PhaseBPMNErrorReported,
		PhaseAbandoned, PhaseSkipped:
		return true
	default:
		return false
	}
}
