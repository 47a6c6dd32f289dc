package main

import (
	"context"
	"flag"
	"log"
	"sync"
	"time"

	"braces.dev/errtrace"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/fixkme/tywheel/app"
	"github.com/fixkme/tywheel/clock"
	"github.com/fixkme/tywheel/config"
	"github.com/fixkme/tywheel/httpapi"
	"github.com/fixkme/tywheel/metrics"
	"github.com/fixkme/tywheel/mlog"
	xtime "github.com/fixkme/tywheel/time"
	"github.com/fixkme/tywheel/timer"
)

func main() {
	configFile := flag.String("config", "", "json config file, environment TYWHEEL_* overrides it")
	flag.Parse()

	conf, err := config.LoadConfig(*configFile, config.FromEnv)
	if err != nil {
		log.Fatalf("load config failed: %s", errtrace.FormatString(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	level := mlog.ParseLevel(conf.LogLevel)
	switch {
	case conf.LogJson:
		var zl *zap.Logger
		if zl, err = zap.NewProduction(); err == nil {
			mlog.UseZapLogger(zl, level)
			defer zl.Sync()
		}
	case conf.LogPath != "":
		err = mlog.UseDefaultLogger(ctx, wg, conf.LogPath, conf.LogName, level, conf.LogStdOut)
	default:
		err = mlog.UseStdLogger(level)
	}
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	if conf.TimezoneOffset != 0 {
		xtime.SetTimezone(int64(conf.TimezoneOffset))
	}
	mlog.Infof("config:\n%s", conf.JsonFormat())

	mgr := timer.Instance()
	clk := clock.NewClock(mgr, clock.Config{
		TickSpan:      time.Duration(conf.TickMs) * time.Millisecond,
		TaskQueueSize: conf.TaskQueueSize,
	})
	mods := []app.Module{clk}

	if conf.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		mgr.EnableMetrics(metrics.NewRegistry(reg, conf.Namespace), "builtin")
		mods = append(mods, httpapi.NewServer(conf.ListenAddr, clk, reg, nil))
	}

	pool, err := ants.NewPool(conf.FirePoolSize)
	if err != nil {
		mlog.Fatalf("create fire pool failed: %v", err)
	}
	if err = scheduleJobs(mgr, conf, pool); err != nil {
		mlog.Fatalf("schedule jobs failed: %v", err)
	}

	if err = app.DefaultApp().Run(mods...); err != nil {
		mlog.Errorf("app exited: %v", err)
	}
	pool.Release()
	cancel()
	wg.Wait()
}
