package mlog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFileLogger(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	if err := UseDefaultLogger(ctx, wg, dir, "wheel", InfoLevel, false); err != nil {
		t.Fatal(err)
	}
	defer SetLogger(nil)

	Infof("timer %d fired", 7)
	Debugf("filtered %d", 8)
	Warnf("late tick")
	cancel()
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(dir, "wheel.log"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "[info] logger_test.go:") || !strings.Contains(out, "timer 7 fired") {
		t.Fatalf("info line missing or untagged:\n%s", out)
	}
	if !strings.Contains(out, "[warn] ") || !strings.Contains(out, "late tick") {
		t.Fatalf("warn line missing:\n%s", out)
	}
	if strings.Contains(out, "filtered") {
		t.Fatalf("debug line leaked through info level:\n%s", out)
	}
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	UseZapLogger(zap.New(core), NoticeLevel)
	defer SetLogger(nil)

	Noticef("cascade level %d", 3)
	Infof("dropped")
	Errorf("bad tick %d", 1)

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "cascade level 3" || entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("unexpected notice entry %+v", entries[0])
	}
	if entries[1].Message != "bad tick 1" || entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("unexpected error entry %+v", entries[1])
	}
	if !strings.HasSuffix(entries[0].Caller.File, "logger_test.go") {
		t.Fatalf("caller points at %s", entries[0].Caller.File)
	}
}

func TestNilLogger(t *testing.T) {
	SetLogger(nil)
	// 未设置日志时所有调用都是空操作
	Debugf("x %d", 1)
	Info("y")
	Noticef("n")
	Warnf("w")
	Errorf("z")
	Fatalf("f")
	if _, ok := current().(nopLogger); !ok {
		t.Fatalf("current() = %T", current())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"trace": TraceLevel,
		"debug": DebugLevel,
		"warn":  WarnLevel,
		"error": ErrorLevel,
		"":      InfoLevel,
		"bogus": InfoLevel,
	}
	for name, want := range cases {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestCallerTag(t *testing.T) {
	tag := callerTag()
	if !strings.HasPrefix(tag, "logger_test.go:") {
		t.Fatalf("tag %q", tag)
	}
}
