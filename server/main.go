package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	jlog "github.com/luno/jettison/log"
	"github.com/luno/weighted/server/handlers"
	"github.com/luno/weighted/server/ops"
	"github.com/luno/weighted/server/ops/config"
)

var (
	httpPort  = flag.Int("port", 80, "port for the API server")
	debugPort = flag.Int("debug_port", 8080, "port for metrics and readiness")
)

type state struct {
	Dists *ops.Distributions
}

func (s state) Distributions() *ops.Distributions {
	return s.Dists
}

func main() {
	InitLogging(os.Stdout)
	flag.Parse()
	config.MustLoadConfig()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var tallies ops.TallyDB
	pool, err := ops.NewRedisPool(ctx)
	if err != nil {
		jlog.Error(ctx, errors.Wrap(err, "failed to connect to redis, falling back to memory db"))
		tallies = ops.NewMemDB()
	} else {
		defer pool.Close()
		tallies = ops.NewRedisDB(pool)
	}

	s := state{Dists: ops.NewDistributions(tallies)}
	err = s.Dists.Load(ctx, config.GetConfig())
	if err != nil {
		panic(err)
	}
	tallied, err := s.Dists.ListTallied(ctx)
	if err != nil {
		jlog.Error(ctx, errors.Wrap(err, "list tallies"))
	} else if len(tallied) > 0 {
		jlog.Info(ctx, "found existing tallies", j.KV("distributions", len(tallied)))
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		runWebServer(ctx, handlers.CreateRouter(s), *httpPort)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runWebServer(ctx, handlers.CreateDebugRouter(), *debugPort)
	}()

	wg.Wait()
}

func runWebServer(ctx context.Context, router *httprouter.Router, port int) {
	srv := &http.Server{
		BaseContext: func(listener net.Listener) context.Context { return ctx },
		Handler:     router,
		Addr:        ":" + strconv.Itoa(port),
	}
	go shutdownOnCancel(ctx, srv)
	jlog.Info(ctx, "server listening", j.KV("port", port))
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
	jlog.Info(ctx, "server terminated", j.KV("port", port))
}

func shutdownOnCancel(ctx context.Context, server *http.Server) {
	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	jlog.Info(ctx, "shutting down http server")
	_ = server.Shutdown(ctx)
}
