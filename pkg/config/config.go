package config

import (
	"log"
	"os"
	"sync"

	"github.com/jinzhu/configor"
	"github.com/juju/errors"
)

var (
	config Config
	once   sync.Once
)

const FileName = "config.yaml"

var (
	defaultSensorsCommand = []string{"sensors"}
	defaultDrivesCommand  = []string{"sudo", "smartctl", "--json", "-A"}
	defaultThermalZones   = []string{"0", "1"}
)

// Get единожды читает и возвращает конфигурацию
func Get() *Config {
	return GetWithPath(FileName)
}

// GetWithPath единожды читает и возвращает конфигурацию
func GetWithPath(filepath string) *Config {
	once.Do(func() {
		if _, err := os.Stat(filepath); err != nil {
			log.Fatalf("файл конфигурации недоступен: %s", err)
		}
		cfg, err := Load(filepath)
		if err != nil {
			log.Fatalf("ошибка чтения файла конфигурации %s: %s", filepath, err)
		}
		config = *cfg
	})
	return &config
}

// Load читает конфигурацию из файла без кэширования. Пустой путь - только значения по умолчанию
func Load(filepath string) (*Config, error) {
	cfg := Config{}
	files := make([]string, 0, 1)
	if filepath != "" {
		files = append(files, filepath)
	}
	if err := configor.Load(&cfg, files...); err != nil {
		return nil, errors.Annotatef(err, "ошибка загрузки %s", filepath)
	}
	// Корректировки значений
	if len(cfg.Sensors.Command) == 0 {
		cfg.Sensors.Command = append([]string{}, defaultSensorsCommand...)
	}
	if len(cfg.Drives.Command) == 0 {
		cfg.Drives.Command = append([]string{}, defaultDrivesCommand...)
	}
	if cfg.Thermal.Zones == nil {
		cfg.Thermal.Zones = append([]string{}, defaultThermalZones...)
	}
	return &cfg, nil
}
