//go:build !jn5189

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"go.bug.st/serial"
)

func runMonitor(args []string, out io.Writer) error {
	fs, logLevel := newFlagSet("monitor")
	var (
		port   = fs.String("port", "/dev/ttyUSB0", "serial device of the board console")
		baud   = fs.Int("baud", 115200, "baud rate")
		list   = fs.Bool("list", false, "list serial ports and exit")
		filter = fs.String("tag", "", "only print lines from this logger tag (e.g. power)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(*logLevel)

	if *list {
		ports, err := serial.GetPortsList()
		if err != nil {
			return fmt.Errorf("list ports: %w", err)
		}
		for _, p := range ports {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	p, err := serial.Open(*port, &serial.Mode{
		BaudRate: *baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", *port, err)
	}
	defer p.Close()
	slog.Info("monitoring", "port", *port, "baud", *baud)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		p.Close()
	}()

	return copyLines(ctx, p, out, *filter)
}

// copyLines forwards console lines, keeping only those tagged tag when it
// is set. It returns nil when ctx ends or the reader reaches EOF.
func copyLines(ctx context.Context, r io.Reader, out io.Writer, tag string) error {
	prefix := ""
	if tag != "" {
		prefix = "[" + tag + "] "
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if prefix != "" && !strings.HasPrefix(line, prefix) {
			continue
		}
		fmt.Fprintln(out, line)
		if strings.Contains(line, "entry aborted") {
			slog.Debug("board declined low-power entry", "line", line)
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return sc.Err()
}
