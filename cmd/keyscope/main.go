package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keyscope/keyscope/pkg/builder"
)

const (
	tickInterval   = 50 * time.Millisecond
	statusInterval = time.Second
)

func redisURL(host string, port int, password string, db int, url string) string {
	if url != "" {
		return url
	}
	auth := ""
	if password != "" {
		auth = ":" + password + "@"
	}
	return fmt.Sprintf("redis://%s%s:%d/%d", auth, host, port, db)
}

func run() error {
	host := flag.String("host", "127.0.0.1", "store host")
	port := flag.Int("port", 6379, "store port")
	password := flag.String("password", "", "store password")
	db := flag.Int("db", 0, "store database number")
	url := flag.String("url", "", "full store URL (overrides host/port/password/db)")
	pattern := flag.String("pattern", "*", "key pattern to list")
	logPath := flag.String("log", "keyscope.log", "log file path")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	// Logs go to a file so they never fight the terminal charts for stdout.
	logger := builder.NewLogger(
		builder.LoggerWithLevel(*logLevel),
		builder.LoggerWithOutputPaths(*logPath),
		builder.LoggerWithFields(map[string]interface{}{"app": "keyscope"}),
	)
	defer logger.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storeURL := redisURL(*host, *port, *password, *db, *url)
	client, err := builder.ConnectRedis(ctx, storeURL, builder.RedisWithLogger(logger))
	if err != nil {
		return err
	}
	defer client.Close()

	dash := builder.NewDashboard(
		client,
		builder.RedisReaderDial(storeURL),
		builder.RedisAppenderDial(storeURL),
		builder.DashboardWithLogger(logger),
		builder.DashboardWithRecordClock(builder.FormatRecordID),
	)
	defer dash.StopWorkers()

	if err := dash.RefreshKeys(ctx, *pattern); err != nil {
		return err
	}
	if keys := dash.Keys(); len(keys) > 0 {
		if err := dash.SelectKey(ctx, keys[0]); err != nil {
			return err
		}
	}
	if n, err := client.DBSize(ctx); err == nil {
		dash.SetStatus("connected to %s, %d keys in db %d", client.Addr(), n, client.DB())
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	statusTicker := time.NewTicker(statusInterval)
	defer statusTicker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			dash.Tick()
		case <-statusTicker.C:
			logger.Debug("status", "line", dash.StatusLine())
		}
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "keyscope:", err)
		os.Exit(1)
	}
}
