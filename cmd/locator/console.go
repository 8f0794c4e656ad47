package main

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/locator"
)

// console is the buffered terminal output shared by the shell and by notices
// raised from background work.
type console struct {
	mu  sync.Mutex
	buf *bufio.Writer
}

func newConsole(w io.Writer) *console {
	return &console{buf: bufio.NewWriter(w)}
}

func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *console) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Flush()
}

// Notify prints a notice as one line and flushes it.
func (c *console) Notify(n locator.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.buf, "[%s] %s\n", n.Level, n.Message)
	c.buf.Flush()
}
