// Command sse_load opens many concurrent subscriptions to the portfolio stream
// and reports how many snapshots each side of the connection saw.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type counters struct {
	connected   atomic.Int64
	connectErrs atomic.Int64
	streamErrs  atomic.Int64
	snapshots   atomic.Int64
	heartbeats  atomic.Int64
}

func (c *counters) fields() []zap.Field {
	return []zap.Field{
		zap.Int64("connected", c.connected.Load()),
		zap.Int64("connect_errs", c.connectErrs.Load()),
		zap.Int64("stream_errs", c.streamErrs.Load()),
		zap.Int64("snapshots", c.snapshots.Load()),
		zap.Int64("heartbeats", c.heartbeats.Load()),
	}
}

type lineKind int

const (
	lineOther lineKind = iota
	lineSnapshot
	lineHeartbeat
)

func classify(line string) lineKind {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case line == "event: portfolio":
		return lineSnapshot
	case strings.HasPrefix(line, ":"):
		return lineHeartbeat
	default:
		return lineOther
	}
}

func main() {
	var (
		targetURL   string
		connections int
		duration    time.Duration
		rampUp      time.Duration
	)

	flag.StringVar(&targetURL, "url", "http://localhost:8080/api/portfolio/stream", "portfolio stream URL")
	flag.IntVar(&connections, "conns", 200, "number of concurrent subscriptions")
	flag.DurationVar(&duration, "dur", time.Minute, "test duration (0 for until interrupted)")
	flag.DurationVar(&rampUp, "ramp", time.Second, "spread connection starts across this window")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if connections <= 0 {
		logger.Fatal("invalid connection count", zap.Int("conns", connections))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	client := &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     connections + 10,
			MaxIdleConnsPerHost: connections + 10,
			DisableCompression:  true,
			DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		},
	}

	logger.Info("starting stream load",
		zap.String("url", targetURL), zap.Int("conns", connections),
		zap.Duration("duration", duration), zap.Duration("ramp", rampUp))

	var stats counters
	start := time.Now()

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logger.Info("status", append(stats.fields(), zap.Duration("elapsed", time.Since(start).Truncate(time.Second)))...)
			}
		}
	}()

	interval := rampUp / time.Duration(connections)
	var g errgroup.Group
	for i := 0; i < connections && ctx.Err() == nil; i++ {
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(interval):
			}
		}
		g.Go(func() error {
			subscribe(ctx, client, targetURL, &stats)
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(start)
	fmt.Printf("done: connected=%d connect_errs=%d stream_errs=%d snapshots=%d elapsed=%s snapshots/s=%.2f\n",
		stats.connected.Load(),
		stats.connectErrs.Load(),
		stats.streamErrs.Load(),
		stats.snapshots.Load(),
		elapsed.Truncate(time.Millisecond),
		float64(stats.snapshots.Load())/elapsed.Seconds(),
	)
}

func subscribe(ctx context.Context, client *http.Client, url string, stats *counters) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		stats.connectErrs.Add(1)
		return
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(req)
	if err != nil {
		stats.connectErrs.Add(1)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		stats.connectErrs.Add(1)
		return
	}
	stats.connected.Add(1)

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if ctx.Err() == nil {
				stats.streamErrs.Add(1)
			}
			return
		}
		switch classify(line) {
		case lineSnapshot:
			stats.snapshots.Add(1)
		case lineHeartbeat:
			stats.heartbeats.Add(1)
		}
	}
}
