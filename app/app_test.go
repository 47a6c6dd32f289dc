package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

type journal struct {
	mu     sync.Mutex
	events []string
}

func (j *journal) add(e string) {
	j.mu.Lock()
	j.events = append(j.events, e)
	j.mu.Unlock()
}

type fakeModule struct {
	name    string
	initErr error
	j       *journal
	running chan struct{}
}

func newFake(name string, j *journal) *fakeModule {
	return &fakeModule{name: name, j: j, running: make(chan struct{})}
}

func (f *fakeModule) Name() string { return f.name }

func (f *fakeModule) OnInit() error {
	f.j.add(f.name + ".init")
	return f.initErr
}

func (f *fakeModule) Run(closeSig <-chan struct{}) {
	close(f.running)
	<-closeSig
	f.j.add(f.name + ".exit")
}

func (f *fakeModule) OnDestroy() {
	f.j.add(f.name + ".destroy")
}

func TestStartStopOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	j := &journal{}
	a, b := newFake("a", j), newFake("b", j)
	app := new(App)
	if err := app.Start(a, b); err != nil {
		t.Fatal(err)
	}
	<-a.running
	<-b.running
	if app.GetState() != AppStateRun {
		t.Fatalf("state %d", app.GetState())
	}
	if err := app.Start(a); err == nil {
		t.Fatal("second start accepted")
	}

	app.Stop()
	want := []string{"a.init", "b.init", "b.exit", "b.destroy", "a.exit", "a.destroy"}
	if diff := cmp.Diff(want, j.events); diff != "" {
		t.Fatalf("lifecycle (-want +got):\n%s", diff)
	}
	if app.GetState() != AppStateNone {
		t.Fatalf("state %d after stop", app.GetState())
	}
}

func TestInitFailureUnwinds(t *testing.T) {
	defer goleak.VerifyNone(t)

	j := &journal{}
	bad := newFake("b", j)
	bad.initErr = errors.New("boom")
	app := new(App)
	if err := app.Start(newFake("a", j), bad, newFake("c", j)); !errors.Is(err, bad.initErr) {
		t.Fatalf("want init error, got %v", err)
	}
	want := []string{"a.init", "b.init", "a.destroy"}
	if diff := cmp.Diff(want, j.events); diff != "" {
		t.Fatalf("lifecycle (-want +got):\n%s", diff)
	}
	if app.GetState() != AppStateNone {
		t.Fatalf("state %d", app.GetState())
	}
	app.Stop()
}

type panicModule struct{ *fakeModule }

func (p panicModule) OnDestroy() { panic("destroy") }

func TestDestroyPanicRecovered(t *testing.T) {
	j := &journal{}
	app := new(App)
	if err := app.Start(panicModule{newFake("p", j)}); err != nil {
		t.Fatal(err)
	}
	app.Stop()
	if app.GetState() != AppStateNone {
		t.Fatal("stop did not finish")
	}
}
