package mlog

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Logger interface {
	Trace(v ...any)
	Debug(v ...any)
	Info(v ...any)
	Notice(v ...any)
	Warn(v ...any)
	Error(v ...any)
	Fatal(v ...any)

	Tracef(format string, v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Noticef(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
	Fatalf(format string, v ...any)
}

var logger Logger

func SetLogger(l Logger) {
	logger = l
}

func UseDefaultLogger(ctx context.Context, wg *sync.WaitGroup, path string, logName string, level Level, stdOut bool) error {
	l, err := newDefaultLogger(path, logName, level, stdOut)
	if err != nil {
		return err
	}
	l.Start(ctx, wg)
	SetLogger(l)
	return nil
}

func UseStdLogger(level Level) error {
	l := newStdoutLogger(level)
	SetLogger(l)
	return nil
}

// UseZapLogger 把日志转发给 zap, 级别过滤仍由 level 决定
func UseZapLogger(zl *zap.Logger, level Level) {
	SetLogger(newZapLogger(zl, level))
}

// ParseLevel 配置里的级别名, 未知名字返回 InfoLevel
func ParseLevel(name string) Level {
	switch name {
	case "fatal":
		return FatalLevel
	case "error":
		return ErrorLevel
	case "warn":
		return WarnLevel
	case "notice":
		return NoticeLevel
	case "debug":
		return DebugLevel
	case "trace":
		return TraceLevel
	}
	return InfoLevel
}

type Level uint32

const (
	FatalLevel Level = iota
	ErrorLevel
	WarnLevel
	NoticeLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

// 包级函数转发给当前日志实现, 未设置时为空操作

func Debugf(format string, a ...any)  { current().Debugf(format, a...) }
func Info(a ...any)                   { current().Info(a...) }
func Infof(format string, a ...any)   { current().Infof(format, a...) }
func Noticef(format string, a ...any) { current().Noticef(format, a...) }
func Warnf(format string, a ...any)   { current().Warnf(format, a...) }
func Errorf(format string, a ...any)  { current().Errorf(format, a...) }

// Fatalf 记录后由具体实现决定是否退出进程, 未设置日志时直接返回
func Fatalf(format string, a ...any) { current().Fatalf(format, a...) }

func current() Logger {
	if logger == nil {
		return nopLogger{}
	}
	return logger
}

type nopLogger struct{}

func (nopLogger) Trace(...any)           {}
func (nopLogger) Debug(...any)           {}
func (nopLogger) Info(...any)            {}
func (nopLogger) Notice(...any)          {}
func (nopLogger) Warn(...any)            {}
func (nopLogger) Error(...any)           {}
func (nopLogger) Fatal(...any)           {}
func (nopLogger) Tracef(string, ...any)  {}
func (nopLogger) Debugf(string, ...any)  {}
func (nopLogger) Infof(string, ...any)   {}
func (nopLogger) Noticef(string, ...any) {}
func (nopLogger) Warnf(string, ...any)   {}
func (nopLogger) Errorf(string, ...any)  {}
func (nopLogger) Fatalf(string, ...any)  {}
