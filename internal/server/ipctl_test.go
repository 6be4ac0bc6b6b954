package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/jroosing/fqdnfilter/internal/checklist"
	"github.com/jroosing/fqdnfilter/internal/filterstate"
)

type fakeLevel struct {
	last string
	fail bool
}

func (f *fakeLevel) SetLevel(level string) error {
	if f.fail {
		return fmt.Errorf("unknown level %q", level)
	}
	f.last = level
	return nil
}

func startTestIPCtl(t *testing.T, filter *filterstate.Shared, level LevelSetter) net.Addr {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	sink := &capturingSink{}
	ctl := NewIPCtl("127.0.0.1", 0, filter, level, sink)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go ctl.handle(conn)
		}
	}()
	return ln.Addr()
}

func sendLine(t *testing.T, addr net.Addr, line string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	fmt.Fprintf(conn, "%s\n", line)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	return reply[:len(reply)-1]
}

func newEmptyFilter() *filterstate.Shared {
	composite := checklist.NewComposite(checklist.New(), checklist.New())
	return filterstate.New(composite, net.ParseIP("8.8.8.8"))
}

func TestIPCtlAllowScenario(t *testing.T) {
	filter := newEmptyFilter()
	addr := startTestIPCtl(t, filter, &fakeLevel{})

	if got, want := sendLine(t, addr, "allow a.test"), "Add a.test to AllowList"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got, want := sendLine(t, addr, "allow a.test"), "a.test is already in AllowList"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got, want := sendLine(t, addr, "deny a.test"), "Remove a.test from AllowList"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got, want := sendLine(t, addr, "save"), "Failed to save allowlist: In-memory mode"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestIPCtlListAndLog(t *testing.T) {
	filter := newEmptyFilter()
	level := &fakeLevel{}
	addr := startTestIPCtl(t, filter, level)

	sendLine(t, addr, "allow z.test")
	if got, want := sendLine(t, addr, "list"), "z.test"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	if got, want := sendLine(t, addr, "log debug"), "Log level set to DEBUG"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if level.last != "debug" {
		t.Fatalf("level handle saw %q, want debug", level.last)
	}
}

func TestIPCtlInvalidCommand(t *testing.T) {
	filter := newEmptyFilter()
	addr := startTestIPCtl(t, filter, &fakeLevel{})

	got := sendLine(t, addr, "frobnicate a.test")
	if got != "Invalid command: frobnicate a.test" {
		t.Fatalf("got %q", got)
	}
}

func TestIPCtlCaseInsensitiveVerb(t *testing.T) {
	filter := newEmptyFilter()
	addr := startTestIPCtl(t, filter, &fakeLevel{})

	if got, want := sendLine(t, addr, "ALLOW upper.test"), "Add upper.test to AllowList"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
