// Package variables работает с process variables BPMN-движка.
//
// Включает:
//   - variable.go — типизированное представление входных переменных
//   - parse.go — толерантный парсер ответа variable-instance endpoint
//   - output.go — выходные переменные для complete/bpmnError запросов
//
// Endpoint переменных у разных версий движка возвращает несколько
// несовместимых форм JSON для одних и тех же данных. Парсер пробует
// формы по порядку и никогда не возвращает ошибку: повреждённый ответ
// деградирует до пустого набора переменных.
package variables
