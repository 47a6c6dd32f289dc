package mlog

import (
	"go.uber.org/zap"
)

// zapLogger 适配 zap, trace 记为 debug, notice 记为 info
type zapLogger struct {
	level Level
	sl    *zap.SugaredLogger
}

func newZapLogger(zl *zap.Logger, level Level) *zapLogger {
	// 跳过 mlog 包级函数和适配层两帧, caller 指向业务代码
	return &zapLogger{
		level: level,
		sl:    zl.WithOptions(zap.AddCaller(), zap.AddCallerSkip(2)).Sugar(),
	}
}

func (l *zapLogger) enabled(level Level) bool {
	return l.level >= level
}

func (l *zapLogger) Trace(v ...any) {
	if l.enabled(TraceLevel) {
		l.sl.Debug(v...)
	}
}

func (l *zapLogger) Tracef(format string, v ...any) {
	if l.enabled(TraceLevel) {
		l.sl.Debugf(format, v...)
	}
}

func (l *zapLogger) Debug(v ...any) {
	if l.enabled(DebugLevel) {
		l.sl.Debug(v...)
	}
}

func (l *zapLogger) Debugf(format string, v ...any) {
	if l.enabled(DebugLevel) {
		l.sl.Debugf(format, v...)
	}
}

func (l *zapLogger) Info(v ...any) {
	if l.enabled(InfoLevel) {
		l.sl.Info(v...)
	}
}

func (l *zapLogger) Infof(format string, v ...any) {
	if l.enabled(InfoLevel) {
		l.sl.Infof(format, v...)
	}
}

func (l *zapLogger) Notice(v ...any) {
	if l.enabled(NoticeLevel) {
		l.sl.Info(v...)
	}
}

func (l *zapLogger) Noticef(format string, v ...any) {
	if l.enabled(NoticeLevel) {
		l.sl.Infof(format, v...)
	}
}

func (l *zapLogger) Warn(v ...any) {
	if l.enabled(WarnLevel) {
		l.sl.Warn(v...)
	}
}

func (l *zapLogger) Warnf(format string, v ...any) {
	if l.enabled(WarnLevel) {
		l.sl.Warnf(format, v...)
	}
}

func (l *zapLogger) Error(v ...any) {
	if l.enabled(ErrorLevel) {
		l.sl.Error(v...)
	}
}

func (l *zapLogger) Errorf(format string, v ...any) {
	if l.enabled(ErrorLevel) {
		l.sl.Errorf(format, v...)
	}
}

func (l *zapLogger) Fatal(v ...any) {
	l.sl.Fatal(v...)
}

func (l *zapLogger) Fatalf(format string, v ...any) {
	l.sl.Fatalf(format, v...)
}
