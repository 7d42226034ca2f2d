package model

// SensorReading одна точка измерения из текстового отчёта sensors
type SensorReading struct {
	// Имя блока отчёта (идентификатор чипа), например "coretemp-isa-0000"
	SensorGroup string
	// Измеряемая точка внутри блока, например "Core 0"
	Component string
	// Текущая температура в градусах Цельсия
	Temperature float64
	// Пороговые значения производителя. Каждое может отсутствовать независимо от других
	Low  *float64
	High *float64
	Crit *float64
}

// Sensors результат разбора отчёта: имя блока -> показания в порядке их следования в отчёте
type Sensors map[string][]SensorReading

// DriveTemperature результат опроса одного физического устройства
type DriveTemperature struct {
	// Имя устройства, например "sda"
	Device  string
	Current *float64
	Crit    *float64
	// Ошибка опроса. Если установлена, температурных значений нет
	Err error
}

// HasData проверяет, что по устройству есть хотя бы одно значение для отправки
func (m DriveTemperature) HasData() bool {
	return m.Err == nil && (m.Current != nil || m.Crit != nil)
}

// Kind возвращает категорию исхода опроса устройства. Для успешного опроса
// без значений возвращается KindNoData
func (m DriveTemperature) Kind() ErrorKind {
	if m.Err != nil {
		return KindOf(m.Err)
	}
	if !m.HasData() {
		return KindNoData
	}
	return KindNone
}

// ThermalZone показание температурной зоны ядра
type ThermalZone struct {
	// Идентификатор зоны (N из thermal_zoneN)
	ID string
	// Значение в тысячных долях градуса, как его отдаёт sysfs
	MilliCelsius float64
}
