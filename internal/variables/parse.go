package variables

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// entry — один элемент исходного JSON: {type, value, valueInfo}
// с опциональным name (присутствует только в плоских списках).
type entry struct {
	Type      string
	Name      string
	Value     json.RawMessage
	ValueInfo map[string]any
}

// errEntryShape — элемент не соответствует форме {type, value, valueInfo}.
var errEntryShape = errors.New("value does not match the variable entry shape")

// parseEntry строго разбирает один элемент. Отсутствие любого из полей
// type/value/valueInfo — структурная ошибка формы, по которой Parse
// переходит к следующей стратегии. Лишние поля движка
// (processDefinitionId, executionId и т.д.) игнорируются.
func parseEntry(raw json.RawMessage) (entry, error) {
	var e struct {
		Type      *string         `json:"type"`
		Name      string          `json:"name"`
		Value     json.RawMessage `json:"value"`
		ValueInfo map[string]any  `json:"valueInfo"`
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return entry{}, err
	}
	if e.Type == nil || e.Value == nil || e.ValueInfo == nil {
		return entry{}, errEntryShape
	}
	return entry{Type: *e.Type, Name: e.Name, Value: e.Value, ValueInfo: e.ValueInfo}, nil
}

// insert добавляет entry в результат, применяя правила деградации:
//   - Json-значение, не подходящее под схему JSON-узла → null placeholder,
//     имя сохраняется, чтобы потерю данных было видно;
//   - String/Boolean с несовпадающим значением → zero value;
//   - неизвестный тип → entry не представлен в результате.
func insert(result Variables, name string, e entry, logger *slog.Logger) {
	switch e.Type {
	case TypeJSON:
		var jv JSONValue
		if err := json.Unmarshal(e.Value, &jv); err != nil {
			logger.Warn("failed to parse Json variable value, storing null placeholder",
				"name", name,
				"error", err,
			)
			jv = JSONValue{Null: true}
		}
		result[name] = Variable{Type: TypeJSON, JSONVal: jv, ValueInfo: e.ValueInfo}
	case TypeBoolean:
		var b bool
		if err := json.Unmarshal(e.Value, &b); err != nil {
			logger.Warn("failed to parse Boolean variable value, storing false",
				"name", name,
				"error", err,
			)
			b = false
		}
		result[name] = Variable{Type: TypeBoolean, BoolVal: b, ValueInfo: e.ValueInfo}
	case TypeString:
		var s string
		if err := json.Unmarshal(e.Value, &s); err != nil {
			logger.Warn("failed to parse String variable value, storing empty string",
				"name", name,
				"error", err,
			)
			s = ""
		}
		result[name] = Variable{Type: TypeString, StringVal: s, ValueInfo: e.ValueInfo}
	default:
		logger.Debug("skipping variable of unsupported type",
			"name", name,
			"type", e.Type,
		)
	}
}

// entriesFromMap строго разбирает объект name → entry.
// Любой невалидный entry — структурная ошибка всей формы.
func entriesFromMap(m map[string]json.RawMessage) (map[string]entry, error) {
	out := make(map[string]entry, len(m))
	for name, raw := range m {
		e, err := parseEntry(raw)
		if err != nil {
			return nil, err
		}
		out[name] = e
	}
	return out, nil
}

// entriesFromList строго разбирает массив плоских entries.
func entriesFromList(list []json.RawMessage) ([]entry, error) {
	out := make([]entry, 0, len(list))
	for _, raw := range list {
		e, err := parseEntry(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Parse разбирает ответ variable-instance endpoint в набор переменных.
//
// Endpoint обычно возвращает объект name → {type, value, valueInfo},
// но разные версии движка отдают и другие формы. Стратегии по порядку:
//
//  1. один объект name → entry;
//  2. массив плоских entries с собственным полем name;
//  3. массив объектов формы 1;
//  4. последовательность сцепленных JSON-значений (без массива):
//     сначала плоские entries, затем объекты формы 1.
//
// Первая структурно подходящая форма определяет результат — даже если
// она дала ноль переменных, fallback дальше не идёт. Parse никогда не
// возвращает ошибку: ни одна форма не подошла → пустой набор плюс
// диагностика в лог.
func Parse(raw string) Variables {
	logger := slog.Default()
	result := make(Variables)
	data := []byte(raw)

	// Стратегия 1: один объект name → entry.
	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &asMap); err == nil {
		if m, err := entriesFromMap(asMap); err == nil {
			for name, e := range m {
				insert(result, name, e, logger)
			}
			return result
		}
	}

	var asList []json.RawMessage
	if err := json.Unmarshal(data, &asList); err == nil {
		// Стратегия 2: массив плоских entries.
		// Entries с пустым name пропускаются.
		if es, err := entriesFromList(asList); err == nil {
			for _, e := range es {
				if e.Name == "" {
					continue
				}
				insert(result, e.Name, e, logger)
			}
			return result
		}

		// Стратегия 3: массив объектов формы 1.
		ok := true
		merged := make(map[string]entry)
		for _, rawElem := range asList {
			var elem map[string]json.RawMessage
			if err := json.Unmarshal(rawElem, &elem); err != nil {
				ok = false
				break
			}
			m, err := entriesFromMap(elem)
			if err != nil {
				ok = false
				break
			}
			for name, e := range m {
				merged[name] = e
			}
		}
		if ok {
			for name, e := range merged {
				insert(result, name, e, logger)
			}
			return result
		}
	}

	// Стратегия 4a: последовательность сцепленных плоских entries.
	anyParsed := false
	dec := json.NewDecoder(strings.NewReader(raw))
	for {
		var chunk json.RawMessage
		if err := dec.Decode(&chunk); err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debug("error while reading variable entry sequence", "error", err)
			}
			break
		}
		e, err := parseEntry(chunk)
		if err != nil {
			logger.Debug("error while parsing variable entry sequence chunk", "error", err)
			break
		}
		if e.Name != "" {
			insert(result, e.Name, e, logger)
			anyParsed = true
		}
	}
	if anyParsed {
		return result
	}

	// Стратегия 4b: последовательность сцепленных объектов формы 1.
	dec = json.NewDecoder(strings.NewReader(raw))
	for {
		var chunk map[string]json.RawMessage
		if err := dec.Decode(&chunk); err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debug("error while reading variable map sequence", "error", err)
			}
			break
		}
		m, err := entriesFromMap(chunk)
		if err != nil {
			logger.Debug("error while parsing variable map sequence chunk", "error", err)
			break
		}
		anyParsed = true
		for name, e := range m {
			insert(result, name, e, logger)
		}
	}

	if !anyParsed {
		logger.Warn("unable to parse variables payload, ignoring it",
			"payload", truncate(raw, 200),
		)
	}

	return result
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
