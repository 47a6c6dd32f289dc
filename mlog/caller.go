package mlog

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const maxCallerDepth = 16

// callerTag 返回 mlog 包外第一个调用者的 "file:line "
func callerTag() string {
	pcs := make([]uintptr, maxCallerDepth)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !isLogFrame(frame.Function) || strings.HasSuffix(frame.File, "_test.go") {
			return filepath.Base(frame.File) + ":" + strconv.Itoa(frame.Line) + " "
		}
		if !more {
			break
		}
	}
	return "???:0 "
}

func isLogFrame(fn string) bool {
	// github.com/fixkme/tywheel/mlog.(*loggerImp).Infof
	i := strings.LastIndexByte(fn, '/')
	return strings.HasPrefix(fn[i+1:], "mlog.")
}
