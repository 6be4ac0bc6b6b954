package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jroosing/fqdnfilter/internal/checklist"
	"github.com/jroosing/fqdnfilter/internal/events"
	"github.com/jroosing/fqdnfilter/internal/filterstate"
)

// LevelSetter is the subset of the logging reload handle ipctl needs: the
// ability to change active verbosity without restarting the process.
type LevelSetter interface {
	SetLevel(level string) error
}

// IPCtl is the line-based TCP control channel: one command per connection,
// dispatched against the shared filter state and the logger's reload
// handle, one reply line written back before the connection closes.
type IPCtl struct {
	Address string
	Port    uint16
	Filter  *filterstate.Shared
	Level   LevelSetter
	Sink    events.Sink
}

// NewIPCtl builds a control server bound to address:port.
func NewIPCtl(address string, port uint16, filter *filterstate.Shared, level LevelSetter, sink events.Sink) *IPCtl {
	return &IPCtl{Address: address, Port: port, Filter: filter, Level: level, Sink: sink}
}

// Serve binds the TCP listener and blocks, accepting connections until ctx
// is cancelled. Each connection is handled in its own goroutine and is
// short-lived: one line in, one line out.
func (c *IPCtl) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", net.JoinHostPort(c.Address, fmt.Sprint(c.Port)))
	if err != nil {
		return fmt.Errorf("ipctl: listen %s:%d: %w", c.Address, c.Port, err)
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("ipctl: accept: %w", err)
		}
		go c.handle(conn)
	}
}

func (c *IPCtl) handle(conn net.Conn) {
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		return
	}
	line = strings.TrimRight(line, "\r\n")

	reply := c.dispatch(line)
	fmt.Fprintln(conn, reply)
}

func (c *IPCtl) dispatch(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return invalid(line)
	}

	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "log":
		if len(args) != 1 {
			return invalid(line)
		}
		return c.cmdLog(args[0])
	case "allow":
		if len(args) != 1 {
			return invalid(line)
		}
		return c.cmdAllow(args[0])
	case "deny":
		if len(args) != 1 {
			return invalid(line)
		}
		return c.cmdDeny(args[0])
	case "save":
		if len(args) != 0 {
			return invalid(line)
		}
		return c.cmdSave()
	case "list":
		if len(args) != 0 {
			return invalid(line)
		}
		return c.cmdList()
	default:
		return invalid(line)
	}
}

func invalid(line string) string {
	return fmt.Sprintf("Invalid command: %s", line)
}

func (c *IPCtl) cmdLog(level string) string {
	if c.Level == nil {
		return "Failed to change log level: logging not configured"
	}
	if err := c.Level.SetLevel(level); err != nil {
		c.Sink.Error(fmt.Sprintf("ipctl: set log level: %v", err))
		return fmt.Sprintf("Failed to change log level: %v", err)
	}
	return fmt.Sprintf("Log level set to %s", strings.ToUpper(level))
}

func (c *IPCtl) cmdAllow(fqdn string) string {
	var added bool
	err := c.Filter.Allow(func(list *checklist.CheckList) error {
		added = list.Add(fqdn) == 1
		return nil
	})
	if err != nil {
		c.Sink.Error(fmt.Sprintf("ipctl: allow %s: %v", fqdn, err))
		return fmt.Sprintf("Failed to add %s to AllowList: %v", fqdn, err)
	}
	if added {
		return fmt.Sprintf("Add %s to AllowList", fqdn)
	}
	return fmt.Sprintf("%s is already in AllowList", fqdn)
}

func (c *IPCtl) cmdDeny(fqdn string) string {
	var removed bool
	err := c.Filter.Allow(func(list *checklist.CheckList) error {
		removed = list.Delete(fqdn) == 1
		return nil
	})
	if err != nil {
		c.Sink.Error(fmt.Sprintf("ipctl: deny %s: %v", fqdn, err))
		return fmt.Sprintf("Failed to remove %s from AllowList: %v", fqdn, err)
	}
	if removed {
		return fmt.Sprintf("Remove %s from AllowList", fqdn)
	}
	return fmt.Sprintf("%s is not in AllowList", fqdn)
}

func (c *IPCtl) cmdSave() string {
	var saveErr error
	err := c.Filter.Allow(func(list *checklist.CheckList) error {
		saveErr = list.Save()
		return nil
	})
	if err != nil {
		c.Sink.Error(fmt.Sprintf("ipctl: save: %v", err))
		return fmt.Sprintf("Failed to save allowlist: %v", err)
	}
	if saveErr != nil {
		return fmt.Sprintf("Failed to save allowlist: %s", saveMessage(saveErr))
	}
	return "Saved allowlist"
}

func saveMessage(err error) string {
	if errors.Is(err, checklist.ErrSaveButInMemory) {
		return "In-memory mode"
	}
	return err.Error()
}

func (c *IPCtl) cmdList() string {
	entries := c.Filter.ListAllow()
	if len(entries) == 0 {
		return ""
	}
	return strings.Join(entries, "\n")
}
