// Package smart извлекает температуру накопителей из JSON-вывода smartctl.
// Разные семейства устройств отдают температуру в несовместимых схемах,
// поэтому значение ищется цепочкой стратегий в фиксированном порядке.
package smart

import (
	"encoding/json"

	"github.com/kirsrus/hosttemp/model"
	"github.com/kirsrus/hosttemp/pkg/tool"

	"github.com/juju/errors"
)

const (
	// Имя атрибута температуры в таблице ATA SMART
	TemperatureAttribute = "Temperature_Celsius"
)

// Стратегия извлечения одного значения из разобранного документа
type strategy func(doc map[string]interface{}) (float64, bool)

// Порядок важен: таблица атрибутов считается более достоверным источником, чем
// секция temperature
var currentStrategies = []strategy{
	fromAttributeTable,
	fromTemperatureSection("current"),
}

var critStrategies = []strategy{
	fromTemperatureSection("drive_trip"),
}

// Decode разбирает вывод smartctl --json. Ошибка имеет категорию model.KindMalformedOutput
func Decode(device string, data []byte) (interface{}, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Trace(model.NewCommandError(model.KindMalformedOutput, device, err))
	}
	return doc, nil
}

// ExtractCurrentTemperature возвращает текущую температуру из документа doc или
// false, если ни одна из стратегий значения не нашла
func ExtractCurrentTemperature(doc interface{}) (float64, bool) {
	return apply(currentStrategies, doc)
}

// ExtractDriveTemperature извлекает текущую и критическую температуру. Критическая
// берётся только из секции temperature. Если не найдено ни одного значения,
// возвращается false (данных нет, но это не ошибка)
func ExtractDriveTemperature(doc interface{}) (model.DriveTemperature, bool) {
	res := model.DriveTemperature{}
	if v, ok := ExtractCurrentTemperature(doc); ok {
		res.Current = tool.Float(v)
	}
	if v, ok := apply(critStrategies, doc); ok {
		res.Crit = tool.Float(v)
	}
	return res, res.Current != nil || res.Crit != nil
}

func apply(strategies []strategy, doc interface{}) (float64, bool) {
	root, ok := doc.(map[string]interface{})
	if !ok {
		return 0, false
	}
	for _, s := range strategies {
		if v, ok := s(root); ok {
			return v, true
		}
	}
	return 0, false
}

// ata_smart_attributes.table[] -> первая запись с name == Temperature_Celsius
func fromAttributeTable(doc map[string]interface{}) (float64, bool) {
	attrs, ok := doc["ata_smart_attributes"].(map[string]interface{})
	if !ok {
		return 0, false
	}
	table, ok := attrs["table"].([]interface{})
	if !ok {
		return 0, false
	}
	for _, item := range table {
		attr, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if name, _ := attr["name"].(string); name != TemperatureAttribute {
			continue
		}
		v, ok := attr["value"].(float64)
		return v, ok
	}
	return 0, false
}

// temperature.<key>
func fromTemperatureSection(key string) strategy {
	return func(doc map[string]interface{}) (float64, bool) {
		section, ok := doc["temperature"].(map[string]interface{})
		if !ok {
			return 0, false
		}
		v, ok := section[key].(float64)
		return v, ok
	}
}
