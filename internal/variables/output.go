package variables

import (
	"encoding/json"
	"fmt"
)

// SerializationFormatJSON — значение serializationDataFormat,
// которое движок ожидает у Json-переменных.
const SerializationFormatJSON = "application/json"

// OutVariable — выходная переменная для complete/bpmnError запросов.
//
// Wire-форма зеркальна входной: {value, type, valueInfo},
// type ограничен String/Boolean/Integer/Long/Double/Json.
type OutVariable struct {
	Value     any            `json:"value"`
	Type      string         `json:"type"`
	ValueInfo map[string]any `json:"valueInfo"`
}

// OutVariables — набор выходных переменных, имя → переменная.
type OutVariables map[string]OutVariable

// OutString создаёт выходную переменную типа String.
func OutString(value string) OutVariable {
	return OutVariable{
		Value:     value,
		Type:      "String",
		ValueInfo: map[string]any{},
	}
}

// OutBool создаёт выходную переменную типа Boolean.
func OutBool(value bool) OutVariable {
	return OutVariable{
		Value:     value,
		Type:      "Boolean",
		ValueInfo: map[string]any{},
	}
}

// OutInteger создаёт выходную переменную типа Integer.
func OutInteger(value int32) OutVariable {
	return OutVariable{
		Value:     value,
		Type:      "Integer",
		ValueInfo: map[string]any{},
	}
}

// OutLong создаёт выходную переменную типа Long.
func OutLong(value int64) OutVariable {
	return OutVariable{
		Value:     value,
		Type:      "Long",
		ValueInfo: map[string]any{},
	}
}

// OutDouble создаёт выходную переменную типа Double.
func OutDouble(value float64) OutVariable {
	return OutVariable{
		Value:     value,
		Type:      "Double",
		ValueInfo: map[string]any{},
	}
}

// OutJSON создаёт выходную переменную типа Json.
//
// Движок ожидает Json-переменные как сериализованную строку
// с valueInfo.serializationDataFormat = "application/json",
// а не как нативное JSON-значение.
func OutJSON(value any) (OutVariable, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return OutVariable{}, fmt.Errorf("marshal Json variable value: %w", err)
	}
	return OutVariable{
		Value: string(data),
		Type:  "Json",
		ValueInfo: map[string]any{
			"serializationDataFormat": SerializationFormatJSON,
		},
	}, nil
}
