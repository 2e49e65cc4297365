// Package registry хранит таблицу handler'ов бизнес-логики.
//
// Handler привязывается к имени Service Task (activityId) один раз при
// старте процесса, до запуска polling-цикла. После старта таблица
// только читается, поэтому безопасна для конкурентных читателей.
package registry

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/shaiso/Operatask/internal/variables"
)

// Handler — функция бизнес-логики для одного Service Task.
//
// Получает входные переменные процесса и возвращает выходные переменные
// либо ошибку. Ошибка типа *domain.BPMNError трактуется воркером как
// business error процесса, любая другая — как техническая.
type Handler func(vars variables.Variables) (variables.OutVariables, error)

// Registry — реестр handler'ов по имени Service Task.
//
// Потокобезопасен. Регистрация append-only: повторная регистрация
// имени не отклоняется, но действует первая — совпадает с поведением
// поиска "первый найденный выигрывает".
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *slog.Logger
}

// New создаёт пустой реестр.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register привязывает handler к имени Service Task.
// Вызывается при инициализации процесса, до старта воркера.
//
// Дубликат имени сохраняет первый handler и пишет предупреждение:
// молчаливое принятие дубликата скрывало бы ошибку конфигурации.
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		r.logger.Warn("duplicate handler registration, keeping the first one",
			"name", name,
		)
		return
	}
	r.handlers[name] = handler
}

// Find возвращает handler для имени Service Task.
// Точное строковое совпадение, без wildcards и иерархий topic'ов.
func (r *Registry) Find(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[name]
	return h, ok
}

// Names возвращает отсортированный список зарегистрированных имён.
// Используется для диагностики и тестов.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
