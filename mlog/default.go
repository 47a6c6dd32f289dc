package mlog

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultMaxSizeMB  = 100 // 单个日志文件上限
	defaultMaxBackups = 10
)

// loggerImp 异步文件日志, 写文件在独立协程里完成, 文件滚动交给 lumberjack
type loggerImp struct {
	out    *lumberjack.Logger
	ll     *log.Logger
	buff   chan string
	level  Level
	stdOut bool
}

func newDefaultLogger(logpath, logName string, level Level, stdOut bool) (*loggerImp, error) {
	// 默认使用当前路径
	if len(logpath) == 0 {
		logpath = "."
	}
	if err := os.MkdirAll(logpath, 0755); err != nil {
		return nil, err
	}
	out := &lumberjack.Logger{
		Filename:   filepath.Join(logpath, genLogName(logName)),
		MaxSize:    defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		LocalTime:  true,
	}
	if stdOut {
		log.SetFlags(log.Ldate | log.Lmicroseconds)
	}
	return &loggerImp{
		out:    out,
		ll:     log.New(out, "", log.Ldate|log.Lmicroseconds),
		buff:   make(chan string, 0x10000),
		level:  level,
		stdOut: stdOut,
	}, nil
}

func (me *loggerImp) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("log recover error %v\n", r)
			}
			me.out.Close()
			wg.Done()
		}()

		for {
			select {
			case <-ctx.Done():
				// 退出前把缓冲里的日志写完
				for {
					select {
					case str := <-me.buff:
						me.write(str)
					default:
						return
					}
				}
			case str := <-me.buff:
				me.write(str)
			}
		}
	}()
}

func (me *loggerImp) write(str string) {
	if me.stdOut {
		log.Println(str)
	}
	me.ll.Println(str)
}

func (me *loggerImp) IsLevelEnabled(level Level) bool {
	return me.level >= level
}

func (me *loggerImp) Log(level Level, args ...any) {
	if me.IsLevelEnabled(level) {
		me.buff <- getLevelTag(level) + callerTag() + fmt.Sprint(args...)
	}
}

func (me *loggerImp) Logf(level Level, format string, args ...any) {
	if me.IsLevelEnabled(level) {
		me.buff <- getLevelTag(level) + callerTag() + fmt.Sprintf(format, args...)
	}
}

func (me *loggerImp) Trace(args ...any)                  { me.Log(TraceLevel, args...) }
func (me *loggerImp) Tracef(format string, args ...any)  { me.Logf(TraceLevel, format, args...) }
func (me *loggerImp) Debug(args ...any)                  { me.Log(DebugLevel, args...) }
func (me *loggerImp) Debugf(format string, args ...any)  { me.Logf(DebugLevel, format, args...) }
func (me *loggerImp) Info(args ...any)                   { me.Log(InfoLevel, args...) }
func (me *loggerImp) Infof(format string, args ...any)   { me.Logf(InfoLevel, format, args...) }
func (me *loggerImp) Notice(args ...any)                 { me.Log(NoticeLevel, args...) }
func (me *loggerImp) Noticef(format string, args ...any) { me.Logf(NoticeLevel, format, args...) }
func (me *loggerImp) Warn(args ...any)                   { me.Log(WarnLevel, args...) }
func (me *loggerImp) Warnf(format string, args ...any)   { me.Logf(WarnLevel, format, args...) }
func (me *loggerImp) Error(args ...any)                  { me.Log(ErrorLevel, args...) }
func (me *loggerImp) Errorf(format string, args ...any)  { me.Logf(ErrorLevel, format, args...) }

func (me *loggerImp) Fatal(args ...any) {
	if me.IsLevelEnabled(FatalLevel) {
		me.Log(FatalLevel, args...)
		time.Sleep(time.Second)
		os.Exit(1)
	}
}

func (me *loggerImp) Fatalf(format string, args ...any) {
	if me.IsLevelEnabled(FatalLevel) {
		me.Logf(FatalLevel, format, args...)
		time.Sleep(time.Second)
		os.Exit(1)
	}
}

func getLevelTag(level Level) string {
	switch level {
	case FatalLevel:
		return "[fatal] "
	case ErrorLevel:
		return "[error] "
	case WarnLevel:
		return "[warn] "
	case NoticeLevel:
		return "[notice] "
	case InfoLevel:
		return "[info] "
	case DebugLevel:
		return "[debug] "
	case TraceLevel:
		return "[trace] "
	}
	return ""
}

func genLogName(logName string) string {
	if logName == "" {
		logName = "mlog"
	}
	return logName + ".log"
}
