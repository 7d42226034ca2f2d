package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirsrus/hosttemp/controller/manager"
	"github.com/kirsrus/hosttemp/service"
	"github.com/kirsrus/hosttemp/service/reporter"
	webSvcMod "github.com/kirsrus/hosttemp/service/web"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Периодический сбор метрик",
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.Trace(runServe())
	},
}

func runServe() error {
	// Отлавливаем сигнал завершения работы программы
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	interval := time.Duration(cfg.Check.Interval) * time.Second

	assemblerCtl, err := newAssembler()
	if err != nil {
		return errors.Trace(err)
	}

	logReporter, err := reporter.NewLog(&reporter.ConfigLog{Log: log})
	if err != nil {
		return errors.Trace(err)
	}
	reporters := []service.ReporterSvc{logReporter}

	// region Контроллер WEB

	if cfg.Http.Enable {
		expiration := time.Duration(cfg.Http.CacheExpiration) * time.Second
		if expiration == 0 {
			expiration = 3 * interval
		}
		webSvc, err := webSvcMod.NewWeb(ctx, &webSvcMod.ConfigWeb{
			Log:             log,
			WebPort:         cfg.Http.Port,
			CacheExpiration: expiration,
		})
		if err != nil {
			return errors.Trace(err)
		}
		go webSvc.Serve()
		reporters = append(reporters, webSvc)
	}

	// endregion
	// region Менеджер циклов сбора

	managerCtl, err := manager.NewManager(ctx, &manager.ConfigManager{
		Log:          log,
		AssemblerCtl: assemblerCtl,
		Reporters:    reporters,
		Interval:     interval,
	})
	if err != nil {
		return errors.Trace(err)
	}

	// endregion

	err = managerCtl.Serve()
	log.Info("получена команда на завершение работы программы")
	return errors.Trace(err)
}
