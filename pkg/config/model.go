package config

type (

	// Config конфигурация программы
	Config struct {

		// Описание логирования
		Log struct {

			// Путь к файлу лога
			Path string

			// Имя файла логирования
			Filename string `required:"true" default:"hosttemp.log"`

			// Уровень логирования
			Level string `required:"true" default:"warning"`

			// Выводить лог только на консоль
			Console bool `default:"false"`
		}

		// Описание формируемых метрик
		Metric struct {

			// Префикс имён метрик: <namespace>.temperature.*
			Namespace string `default:"custom"`
		}

		// Отчёт утилиты sensors (lm-sensors)
		Sensors struct {

			// Команда получения отчёта
			Command []string

			// Таймаут выполнения команды (в секундах)
			Timeout uint `default:"10"`
		}

		// Температурные зоны ядра
		Thermal struct {

			// Корень sysfs с зонами thermal_zoneN
			Root string `default:"/sys/class/thermal"`

			// Опрашиваемые зоны. Пустой список - все найденные зоны
			Zones []string
		}

		// Опрос накопителей через smartctl
		Drives struct {

			// Директория с устройствами
			DevDir string `default:"/dev"`

			// Шаблон имён устройств
			Pattern string `default:"^sd[a-z]$"`

			// Команда опроса. Путь к устройству добавляется последним аргументом
			Command []string

			// Таймаут опроса одного устройства (в секундах)
			Timeout uint `default:"30"`
		}

		// Периодичность проверок
		Check struct {

			// Интервал между циклами сбора (в секундах)
			Interval uint `default:"60"`
		}

		// Встроенный WEB-сервер с метриками
		Http struct {

			// Включить WEB-сервер
			Enable bool `default:"false"`

			// Порт WEB-сервера
			Port uint `default:"9101"`

			// Время жизни последнего цикла в кэше (в секундах). 0 - три интервала проверки
			CacheExpiration uint `default:"0"`
		}
	}
)
