package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitd/internal/logger"
	"github.com/julianstephens/habitd/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Listen address (overrides the configured one)." default:""`
}

// Run starts the daemon and blocks until SIGINT or SIGTERM.
func (c *ServeCmd) Run(ctx *Context) error {
	engine, err := ctx.Engine()
	if err != nil {
		return err
	}

	addr := c.Addr
	if addr == "" {
		addr = engine.Settings().ListenAddr
	}

	srv := server.NewServer(engine, addr)
	if err := srv.Start(); err != nil {
		return err
	}
	fmt.Printf("habitd listening on %s\n", srv.Addr())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	return srv.Stop(context.Background())
}
