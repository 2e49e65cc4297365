package domain

// ExternalTask — открытый external task из BPMN-движка.
//
// Движок отдаёт список таких tasks через REST endpoint
// GET /engine-rest/external-task. Task выполняется воркером:
// lock → чтение переменных → handler → отчёт о результате.
//
// Снимок неизменяемый: следующий цикл polling получает свежий список,
// между циклами ничего не кэшируется.
type ExternalTask struct {
	// ID — идентификатор external task в движке.
	ID string `json:"id"`

	// ActivityID — ID Service Task в BPMN-диаграмме.
	// По нему выбирается зарегистрированный handler.
	ActivityID string `json:"activityId"`

	// ProcessInstanceID — идентификатор process instance,
	// которому принадлежит task. Нужен для чтения переменных.
	ProcessInstanceID string `json:"processInstanceId"`

	// Suspended — приостановлен ли task в движке.
	Suspended bool `json:"suspended"`

	// TopicName — topic, объявленный в диаграмме для external task.
	TopicName string `json:"topicName"`

	// Priority — приоритет task в движке.
	Priority int `json:"priority"`

	// BusinessKey — business key родительского process instance.
	BusinessKey string `json:"businessKey"`

	// WorkerID — id воркера, удерживающего lock (если есть).
	WorkerID string `json:"workerId,omitempty"`
}
