package main

import (
	"fmt"
	"os/signal"
	"syscall"

	pagehttp "github.com/pagemark/pagemark/http"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Config.Addr
	}

	srv := pagehttp.NewServer()
	srv.Addr = addr
	srv.Validator = deps.Validator
	srv.Renderer = deps.Renderer
	srv.Converter = deps.Converter
	srv.Cache = deps.Cache
	srv.AuthEnabled = deps.Config.Auth.Enabled
	srv.BearerToken = deps.Config.Auth.Token
	srv.Logger = deps.Logger

	if err := srv.Open(); err != nil {
		return err
	}
	defer srv.Close()

	fmt.Fprintf(deps.Stdout, "listening on %s\n", addr)

	ctx, stop := signal.NotifyContext(deps.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Fprintln(deps.Stdout, "shutting down")
	return nil
}
