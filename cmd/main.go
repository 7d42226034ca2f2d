package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kirsrus/hosttemp/pkg/config"
	"github.com/kirsrus/hosttemp/pkg/logger"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hosttemp",
	Short: "Сбор температурной телеметрии хоста",
	Long: `Сбор температур с датчиков lm-sensors, температурных зон ядра и накопителей
(smartctl) и передача их в виде плоского списка метрик.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "файл конфигурации (по умолчанию "+config.FileName+", если есть)")
	rootCmd.AddCommand(onceCmd, serveCmd, parseCmd)
}

// Чтение конфигурации и настройка лога
func initConfig() error {
	switch {
	case cfgFile != "":
		cfg = config.GetWithPath(cfgFile)
	case fileExists(config.FileName):
		cfg = config.Get()
	default:
		var err error
		if cfg, err = config.Load(""); err != nil {
			return errors.Trace(err)
		}
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	file := ""
	if cfg.Log.Path != "" {
		file = filepath.Join(cfg.Log.Path, cfg.Log.Filename)
	}
	log = logger.GetWithConfig(logger.Config{
		File:    file,
		Level:   level,
		Console: cfg.Log.Console,
	})
	return nil
}

func fileExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("ОШИБКА: в процессе работы произошла ошибка: %v\n", err)
		if log != nil {
			fmt.Printf("Для подробностей смотри лог: %s/%s\n", cfg.Log.Path, cfg.Log.Filename)
			log.Fatal(errors.ErrorStack(err))
		}
		os.Exit(1)
	}
}
