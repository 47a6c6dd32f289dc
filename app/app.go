package app

import (
	"os"
	"os/signal"
	"reflect"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/fixkme/tywheel/errs"
	"github.com/fixkme/tywheel/mlog"
)

// 节点全局状态
const (
	AppStateNone = iota // 未开始或已停止
	AppStateInit        // 正在初始化中
	AppStateRun         // 正在运行中
	AppStateStop        // 正在停止中
)

// 单例
var defaultApp = new(App)

type Module interface {
	OnInit() error                // 初始化
	OnDestroy()                   // 销毁
	Run(closeSig <-chan struct{}) // 启动, closeSig 关闭后返回
	Name() string                 // 名字
}

// mod 模块
type mod struct {
	mi       Module
	closeSig chan struct{}
	wg       sync.WaitGroup
}

// DefaultApp 默认单例
func DefaultApp() *App {
	return defaultApp
}

// App 中的 modules 在初始化(通过 Start 或 Run) 之后不能变更
// App API 只有 GetState 是 goroutine safe 的
type App struct {
	mods  []*mod
	state int32
}

func (app *App) setState(s int32) {
	atomic.StoreInt32(&app.state, s)
}

// GetState 获取状态
func (app *App) GetState() int32 {
	return atomic.LoadInt32(&app.state)
}

// Start 按顺序初始化并启动模块; 任一模块初始化失败时, 已初始化的模块逆序销毁
func (app *App) Start(mods ...Module) error {
	// 单个app不能启动两次
	if app.GetState() != AppStateNone || len(app.mods) != 0 {
		return errs.Unknown.Printf("app mods cannot start twice")
	}
	if len(mods) == 0 {
		return nil
	}
	mlog.Info("app starting up")
	for _, mi := range mods {
		app.mods = append(app.mods, &mod{mi: mi, closeSig: make(chan struct{})})
	}
	app.setState(AppStateInit)
	// 模块初始化
	for i, m := range app.mods {
		if err := m.mi.OnInit(); err != nil {
			mlog.Errorf("module %s(%v) init error %v", m.mi.Name(), reflect.TypeOf(m.mi), err)
			for j := i - 1; j >= 0; j-- {
				destroy(app.mods[j])
			}
			app.mods = nil
			app.setState(AppStateNone)
			return err
		}
	}
	// 模块启动
	for _, m := range app.mods {
		m.wg.Add(1)
		go run(m)
	}
	app.setState(AppStateRun)
	return nil
}

func (app *App) Stop() {
	if app.GetState() != AppStateRun {
		return
	}
	mlog.Info("app stop begin")

	app.setState(AppStateStop)
	// 先进后出
	for i := len(app.mods) - 1; i >= 0; i-- {
		m := app.mods[i]
		close(m.closeSig)
		m.wg.Wait()
		destroy(m)
		mlog.Noticef("module %s stopped", m.mi.Name())
	}
	app.mods = nil
	app.setState(AppStateNone)
}

func run(m *mod) {
	defer m.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			mlog.Errorf("module %s run panic: %v\n%s", m.mi.Name(), r, debug.Stack())
		}
	}()
	m.mi.Run(m.closeSig)
}

func destroy(m *mod) {
	defer func() {
		if r := recover(); r != nil {
			mlog.Errorf("module %s destroy panic: %v\n%s", m.mi.Name(), r, debug.Stack())
		}
	}()

	m.mi.OnDestroy()
}

// Run 启动模块并阻塞到收到 SIGINT/SIGTERM; SIGHUP 忽略
func (app *App) Run(mods ...Module) error {
	if err := app.Start(mods...); err != nil {
		return err
	}
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(c)
	for {
		sig := <-c
		mlog.Infof("server closing down (signal: %v)", sig)
		if sig != syscall.SIGHUP {
			break
		}
	}

	app.Stop()
	return nil
}
