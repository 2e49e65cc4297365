package variables

// Поддерживаемые типы входных переменных.
//
// Переменная любого другого типа пропускается парсером:
// неизвестный тип не фатален, просто не представлен в результате.
const (
	TypeString  = "String"
	TypeBoolean = "Boolean"
	TypeJSON    = "Json"
)

// JSONValue — описание JSON-узла, которое движок отдаёт как value
// переменной типа Json через variable-instance endpoint.
//
// Флаги string/object/boolean/number/array/null описывают вид
// вложенного значения Value.
type JSONValue struct {
	DataFormatName string `json:"dataFormatName"`
	Value          any    `json:"value"`
	String         bool   `json:"string"`
	Object         bool   `json:"object"`
	Boolean        bool   `json:"boolean"`
	Number         bool   `json:"number"`
	Array          bool   `json:"array"`
	Null           bool   `json:"null"`
	NodeType       string `json:"nodeType"`
}

// Variable — типизированная входная переменная процесса.
//
// Tagged union: поле Type определяет, какой payload заполнен.
// Экземпляр никогда не несёт больше одного payload'а.
// ValueInfo — открытый набор метаданных от движка
// (например, serialization hints); закрытой схемы у него нет.
type Variable struct {
	Type      string
	StringVal string
	BoolVal   bool
	JSONVal   JSONValue
	ValueInfo map[string]any
}

// Variables — набор переменных одного process instance.
// Имена уникальны, порядок не имеет значения.
type Variables map[string]Variable

// AsString возвращает строковое значение.
// ok == false, если переменная не типа String.
func (v Variable) AsString() (string, bool) {
	if v.Type != TypeString {
		return "", false
	}
	return v.StringVal, true
}

// AsBool возвращает булево значение.
// ok == false, если переменная не типа Boolean.
func (v Variable) AsBool() (bool, bool) {
	if v.Type != TypeBoolean {
		return false, false
	}
	return v.BoolVal, true
}

// AsJSON возвращает вложенное значение JSON-переменной.
// ok == false, если переменная не типа Json.
func (v Variable) AsJSON() (any, bool) {
	if v.Type != TypeJSON {
		return nil, false
	}
	return v.JSONVal.Value, true
}

// String возвращает значение переменной name как строку.
// ok == false, если переменной нет или тип не совпадает.
func (vs Variables) String(name string) (string, bool) {
	v, ok := vs[name]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// Bool возвращает значение переменной name как bool.
func (vs Variables) Bool(name string) (bool, bool) {
	v, ok := vs[name]
	if !ok {
		return false, false
	}
	return v.AsBool()
}

// JSON возвращает вложенное JSON-значение переменной name.
func (vs Variables) JSON(name string) (any, bool) {
	v, ok := vs[name]
	if !ok {
		return nil, false
	}
	return v.AsJSON()
}
