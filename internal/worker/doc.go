// Package worker реализует polling-цикл обработки external tasks.
//
// Каждый цикл воркер получает список открытых tasks и проводит каждый
// task через фиксированную последовательность фаз:
//
//	fetch → lock → variables → dispatch → report
//
// Tasks внутри одного цикла обрабатываются строго последовательно;
// медленный handler задерживает остальной batch и следующий poll.
// Ни одна ошибка не останавливает внешний цикл — процесс рассчитан
// на бесконечную работу и останавливается только через контекст.
package worker
