package main

import (
	"github.com/panjf2000/ants/v2"

	"github.com/fixkme/tywheel/config"
	"github.com/fixkme/tywheel/mlog"
	xtime "github.com/fixkme/tywheel/time"
	"github.com/fixkme/tywheel/timer"
)

// scheduleJobs 在时钟启动前把配置里的定时任务加入时间轮
func scheduleJobs(mgr *timer.Manager, conf *config.AppConfig, pool *ants.Pool) error {
	if conf.HeartbeatMs > 0 {
		hb := timer.NewTimer(conf.HeartbeatMs, timer.Infinite, timer.FirerFunc(func(t *timer.Timer) bool {
			mlog.Infof("heartbeat, %d timers linked, %d pending", mgr.Len(), mgr.Pending())
			return true
		}))
		if err := mgr.AddTimer(hb); err != nil {
			return err
		}
	}

	if conf.ReportAt != "" {
		h, m, s, err := conf.ReportClock()
		if err != nil {
			return err
		}
		report := timer.NewTimer(xtime.DayMs, timer.Infinite, timer.FirerFunc(func(t *timer.Timer) bool {
			now := xtime.Now()
			mlog.Infof("daily report at %s, %d timers linked", now.String(), mgr.Len())
			return true
		}))
		if err = mgr.ScheduleAt(report, xtime.AtTime(h, m, s)); err != nil {
			return err
		}
	}

	for _, expr := range conf.CronJobs {
		ct, err := timer.NewCronTimer(expr, timer.NewPoolFirer(pool, cronJob(expr)))
		if err != nil {
			return err
		}
		if err = mgr.AddTimer(ct); err != nil {
			return err
		}
		if next, ok := timer.NextRun(ct); ok {
			mlog.Infof("cron job %q first run %s", expr, next.String())
		}
	}
	return nil
}

// cronJob 回调在协程池上执行; ev.Due 是本次触发对应的计划时刻
func cronJob(expr string) func(timer.Event) {
	return func(ev timer.Event) {
		mlog.Infof("cron job %q fired by %s, scheduled for %s", expr, ev.ID, ev.Due.String())
	}
}
