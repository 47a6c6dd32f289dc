package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/fixkme/tywheel/errs"
)

type AppConfig struct {
	TimezoneOffset int `json:"timezone_offset"` //时区偏移 秒, 0 使用本地时区
	LogConfig
	ClockConfig   `json:"clock"`
	MetricsConfig `json:"metrics"`
	HeartbeatMs   uint32   `json:"heartbeat_ms"` //心跳定时器间隔
	ReportAt      string   `json:"report_at"`    //每日报告时刻 HH:MM:SS, 空则不报告
	CronJobs      []string `json:"cron_jobs"`
	FirePoolSize  int      `json:"fire_pool_size"` //cron 回调协程池大小
}

type LogConfig struct {
	LogPath   string `json:"log_path"`
	LogName   string `json:"log_name"`
	LogLevel  string `json:"log_level"`
	LogStdOut bool   `json:"log_std_out"`
	LogJson   bool   `json:"log_json"` //输出 zap json 日志到标准输出, 优先于 log_path
}

type ClockConfig struct {
	TickMs        int `json:"tick_ms"`         //采样周期 毫秒
	TaskQueueSize int `json:"task_queue_size"` //跨协程任务队列长度
}

type MetricsConfig struct {
	Enabled    bool   `json:"enabled"`
	Namespace  string `json:"namespace"`
	ListenAddr string `json:"listen_addr"`
}

func Default() *AppConfig {
	return &AppConfig{
		LogConfig: LogConfig{
			LogName:   "tywheel",
			LogLevel:  "info",
			LogStdOut: true,
		},
		ClockConfig: ClockConfig{
			TickMs:        1,
			TaskQueueSize: 10240,
		},
		MetricsConfig: MetricsConfig{
			Namespace:  "tywheel",
			ListenAddr: ":9108",
		},
		HeartbeatMs:  10 * 1000,
		FirePoolSize: 8,
	}
}

// LoadConfig 默认值 <- 配置文件 <- 环境变量, 后者覆盖前者
func LoadConfig(configFile string, loadConfigFromEnv func(*AppConfig) error) (*AppConfig, error) {
	conf := Default()
	if len(configFile) != 0 {
		if err := loadConfigFromFile(configFile, conf); err != nil {
			return nil, err
		}
	}
	if loadConfigFromEnv != nil {
		if err := loadConfigFromEnv(conf); err != nil {
			return nil, errs.Config.Cause(errtrace.Wrap(err))
		}
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func loadConfigFromFile(configFile string, conf *AppConfig) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return errs.Config.Cause(errtrace.Wrap(err))
	}
	if err = json.Unmarshal(data, conf); err != nil {
		return errs.Config.Printf("%s", configFile).Cause(errtrace.Wrap(err))
	}
	return nil
}

// FromEnv 读取 TYWHEEL_ 前缀的环境变量
func FromEnv(conf *AppConfig) error {
	if v, ok := os.LookupEnv("TYWHEEL_LOG_LEVEL"); ok {
		conf.LogLevel = v
	}
	if v, ok := os.LookupEnv("TYWHEEL_LOG_PATH"); ok {
		conf.LogPath = v
	}
	if v, ok := os.LookupEnv("TYWHEEL_METRICS_ADDR"); ok {
		conf.ListenAddr = v
		conf.Enabled = v != ""
	}
	if v, ok := os.LookupEnv("TYWHEEL_TIMEZONE_OFFSET"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errtrace.Wrap(err)
		}
		conf.TimezoneOffset = n
	}
	if v, ok := os.LookupEnv("TYWHEEL_CRON_JOBS"); ok {
		conf.CronJobs = nil
		for _, expr := range strings.Split(v, ";") {
			if expr = strings.TrimSpace(expr); expr != "" {
				conf.CronJobs = append(conf.CronJobs, expr)
			}
		}
	}
	return nil
}

func (conf *AppConfig) Validate() error {
	if conf.TickMs <= 0 {
		return errs.Config.Printf("tick_ms must be positive, got %d", conf.TickMs)
	}
	if conf.TaskQueueSize <= 0 {
		return errs.Config.Printf("task_queue_size must be positive, got %d", conf.TaskQueueSize)
	}
	if conf.ReportAt != "" {
		if _, _, _, err := conf.ReportClock(); err != nil {
			return err
		}
	}
	if conf.Enabled && conf.ListenAddr == "" {
		return errs.Config.Printf("metrics enabled without listen_addr")
	}
	return nil
}

// ReportClock 解析 ReportAt
func (conf *AppConfig) ReportClock() (hour, min, sec int, err error) {
	parts := strings.Split(conf.ReportAt, ":")
	if len(parts) != 3 {
		return 0, 0, 0, errs.Config.Printf("report_at %q is not HH:MM:SS", conf.ReportAt)
	}
	var v [3]int
	limits := [3]int{23, 59, 59}
	for i, p := range parts {
		n, convErr := strconv.Atoi(p)
		if convErr != nil || n < 0 || n > limits[i] {
			return 0, 0, 0, errs.Config.Printf("report_at %q is not HH:MM:SS", conf.ReportAt)
		}
		v[i] = n
	}
	return v[0], v[1], v[2], nil
}

func (conf *AppConfig) JsonFormat() string {
	if conf == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
