package common

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

// ShutdownHook runs after the stop signal and before the servers shut down.
// Failing hooks are logged and do not stop the shutdown.
type ShutdownHook func(ctx context.Context) error

// RunServerWithShutdown starts every server and blocks until a termination
// signal (SIGINT or SIGTERM) is received or ctx is cancelled. It then runs the
// hooks in order, each with its own timeout inside the overall shutdown
// deadline, and finally shuts the servers down.
func RunServerWithShutdown(ctx context.Context, servers []*http.Server, startupLog string, cfg TimeoutConfig, hooks ...ShutdownHook) {
	hookTimeout := cfg.Hook
	if hookTimeout <= 0 {
		hookTimeout = 5 * time.Second
	}

	failed := make(chan error, len(servers))
	for _, server := range servers {
		go func(server *http.Server) {
			log.Printf("starting %s on %s", startupLog, server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				failed <- err
			}
		}(server)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	select {
	case <-sigCtx.Done():
		if ctx.Err() != nil {
			log.Printf("context done for %s", startupLog)
		} else {
			log.Printf("shutdown signal received for %s", startupLog)
		}
	case err := <-failed:
		log.Printf("%s listen error: %v", startupLog, err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
	defer cancel()

	RunHooks(shutdownCtx, hookTimeout, hooks...)

	for _, server := range servers {
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("graceful shutdown of %s failed: %v", server.Addr, err)
		}
	}
	log.Printf("%s shutdown complete", startupLog)
}

// RunHooks runs hooks sequentially, each bounded by hookTimeout.
func RunHooks(ctx context.Context, hookTimeout time.Duration, hooks ...ShutdownHook) {
	for i, h := range hooks {
		if h == nil {
			continue
		}
		hookCtx, cancel := context.WithTimeout(ctx, hookTimeout)
		err := h(hookCtx)
		switch {
		case errors.Is(hookCtx.Err(), context.DeadlineExceeded):
			log.Printf("Shutdown hook %d did not finish within %s", i, hookTimeout)
		case err != nil:
			log.Printf("Shutdown hook %d: %v", i, err)
		}
		cancel()
	}
}

// TimeoutConfig holds the http server timeouts and the shutdown budget.
type TimeoutConfig struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
	Hook       time.Duration
}

func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       15 * time.Second,
		Write:      30 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	}
}

// LoadTimeoutConfig overrides defaults from SLASK_TIMEOUT_<NAME> variables
// (READ_HEADER, READ, WRITE, IDLE, SHUTDOWN, HOOK). Values are durations like
// "30s" or a plain number of seconds; invalid or non positive values keep the
// default.
func LoadTimeoutConfig(defaults TimeoutConfig) TimeoutConfig {
	fields := map[string]*time.Duration{
		"READ_HEADER": &defaults.ReadHeader,
		"READ":        &defaults.Read,
		"WRITE":       &defaults.Write,
		"IDLE":        &defaults.Idle,
		"SHUTDOWN":    &defaults.Shutdown,
		"HOOK":        &defaults.Hook,
	}
	for name, field := range fields {
		if d, ok := parseTimeout(os.Getenv("SLASK_TIMEOUT_" + name)); ok {
			*field = d
		}
	}
	return defaults
}

func parseTimeout(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second, n > 0
	}
	d, err := time.ParseDuration(value)
	return d, err == nil && d > 0
}

// NewServerWithTimeouts attaches timeout settings to a new *http.Server.
func NewServerWithTimeouts(addr string, handler http.Handler, cfg TimeoutConfig) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeader,
		ReadTimeout:       cfg.Read,
		WriteTimeout:      cfg.Write,
		IdleTimeout:       cfg.Idle,
	}
}
