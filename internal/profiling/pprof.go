// Package profiling runs the optional pprof listener.
package profiling

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/threelok/news-relay/internal/logger"
)

const readHeaderTimeout = 5 * time.Second

// Handler returns a mux serving the standard /debug/pprof endpoints.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// Start serves pprof on localhost:port until ctx is cancelled. It returns
// immediately; listener errors are logged.
func Start(ctx context.Context, port int, log logger.Logger) {
	// Only bind to localhost.
	addr := net.JoinHostPort("localhost", strconv.Itoa(port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info("Starting pprof server",
			logger.String("addr", addr),
			logger.String("profiles", "http://"+addr+"/debug/pprof/"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof server error", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		//nolint:contextcheck // ctx is already done
		_ = srv.Shutdown(context.Background())
	}()
}
