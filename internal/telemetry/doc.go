// Package telemetry обеспечивает наблюдаемость воркера.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики цикла обработки external tasks
//
// Воркер использует единый формат логирования
// и экспортирует метрики на /metrics endpoint.
package telemetry
