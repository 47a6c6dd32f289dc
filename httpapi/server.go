package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fixkme/tywheel/clock"
	"github.com/fixkme/tywheel/mlog"
	"github.com/fixkme/tywheel/timer"
)

const (
	defaultApiVersion = "v0"
	shutdownTimeout   = 3 * time.Second
)

// Server 管理端口: /metrics 导出 prometheus 指标, /<version>/timers 查询时间轮状态
type Server struct {
	opt    *Options
	Addr   string
	Ln     net.Listener
	Router *gin.Engine
	clk    *clock.Clock
	gather prometheus.Gatherer
	srv    *http.Server
}

type Options struct {
	// 版本号，为空时使用 v0
	ApiVersion string
	// Middlewares 作用于版本分组, 可以添加鉴权的逻辑; /metrics 不受影响
	Middlewares []gin.HandlerFunc
}

// WheelStats 时间轮快照, 在 tick 协程上采集
type WheelStats struct {
	Name      string `json:"name"`
	Linked    int    `json:"linked"`
	Pending   int    `json:"pending"`
	LastCheck int64  `json:"last_check"`
	Cursor    string `json:"cursor"`
}

func NewServer(addr string, clk *clock.Clock, gather prometheus.Gatherer, opt *Options) *Server {
	if opt == nil {
		opt = &Options{}
	}
	setMode()
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		opt:    opt,
		Addr:   addr,
		Router: engine,
		clk:    clk,
		gather: gather,
	}
	s.regWebRouter()
	s.srv = &http.Server{Handler: engine, ReadHeaderTimeout: shutdownTimeout}
	return s
}

var modeOnce sync.Once

// setMode gin 默认 debug 模式会打印路由表
func setMode() {
	modeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})
}

func (s *Server) regWebRouter() {
	s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gather, promhttp.HandlerOpts{})))

	version := s.opt.ApiVersion
	if version == "" {
		version = defaultApiVersion
	}
	apiGroup := s.Router.Group("/" + version)
	if len(s.opt.Middlewares) > 0 {
		apiGroup.Use(s.opt.Middlewares...)
	}
	apiGroup.GET("/timers", s.timersHandler)
	apiGroup.GET("/myip", s.clientIPHandler)
}

func (s *Server) timersHandler(c *gin.Context) {
	var stats WheelStats
	err := s.clk.Exec(func(m *timer.Manager) {
		stats = WheelStats{
			Name:      m.Name(),
			Linked:    m.Len(),
			Pending:   m.Pending(),
			LastCheck: m.LastCheck().Milliseconds(),
			Cursor:    m.LastCheck().String(),
		}
	})
	if err != nil {
		mlog.Warnf("timers stats failed: %v", err)
		ResponseError(c, http.StatusServiceUnavailable, err)
		return
	}
	ResponseSuccess(c, stats)
}

type myIP struct {
	// IP 客户端连接IP
	IP string `json:"ip"`
}

// 回复客户端使用的IP
func (s *Server) clientIPHandler(c *gin.Context) {
	c.JSON(http.StatusOK, myIP{IP: c.ClientIP()})
}

func (s *Server) Name() string {
	return "httpapi"
}

func (s *Server) OnInit() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.Ln = ln
	s.Addr = ln.Addr().String()
	return nil
}

// Run 阻塞到 closeSig 关闭, 之后优雅关闭 http 服务
func (s *Server) Run(closeSig <-chan struct{}) {
	served := make(chan error, 1)
	go func() {
		served <- s.srv.Serve(s.Ln)
	}()
	select {
	case <-closeSig:
	case err := <-served:
		if !errors.Is(err, http.ErrServerClosed) {
			mlog.Warnf("web run error: %v", err)
		}
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		mlog.Warnf("web stop error %v", err)
	}
	<-served
}

func (s *Server) OnDestroy() {}
