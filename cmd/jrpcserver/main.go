// cmd/jrpcserver is a demo binary that starts a JSON-RPC 2.0 HTTP server
// exercising rpc/server's dispatch routine with a handful of example
// commands (echo, sum, time). It exists because the teacher repo always
// ships a runnable demo binary alongside a library package — this one
// is demonstration glue, not part of the library's own deliverable, per
// spec section 1's scope note on the HTTP server facade.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/jrpcgo/arena"
	"github.com/dmagro/jrpcgo/config"
	"github.com/dmagro/jrpcgo/env"
	"github.com/dmagro/jrpcgo/jsonvalue"
	rpcserver "github.com/dmagro/jrpcgo/rpc/server"
	"github.com/dmagro/jrpcgo/rpcmsg"
)

func main() {
	env.Load()

	var cfgPath string
	var port uint16

	root := &cobra.Command{
		Use:   "jrpcserver",
		Short: "Run a demo JSON-RPC 2.0 HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgPath, port)
		},
	}
	root.Flags().StringVar(&cfgPath, "config", "", "YAML config file (see config.File); optional")
	root.Flags().Uint16Var(&port, "port", 8080, "listen port, overridden by --config's server.port when set")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runServe(cfgPath string, port uint16) error {
	settings := rpcserver.HTTPSettings{Port: port}
	if cfgPath != "" {
		f, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		settings = f.ServerHTTPSettings()
		if settings.Port == 0 {
			settings.Port = port
		}
	}

	rpc := rpcserver.New()
	registerDemoCommands(rpc)

	httpSrv := rpcserver.NewHTTPServer(rpc, settings)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		_ = httpSrv.Shutdown(context.Background())
	}()

	fmt.Printf("jrpcserver listening on :%d (commands: echo, sum, time)\n", settings.Port)
	err := httpSrv.ListenAndServe()
	<-ctx.Done()
	return err
}

// registerDemoCommands wires the example methods every `original_source/
// examples/rpc_server.cpp`-style demo ships: echo back params, sum a
// numeric array, and report server time — enough surface for
// cmd/jrpcclient to exercise synchronous calls, notifications and
// method-not-found/invalid-params error paths end to end.
func registerDemoCommands(rpc *rpcserver.Server) {
	rpc.AddCommand("echo", func(alloc arena.Allocator, params jsonvalue.Value) (jsonvalue.Value, *rpcmsg.Error) {
		return params, nil
	})

	rpc.AddCommand("sum", func(alloc arena.Allocator, params jsonvalue.Value) (jsonvalue.Value, *rpcmsg.Error) {
		if !params.IsArray() {
			return jsonvalue.Value{}, rpcmsg.NewErrorf(rpcmsg.InvalidParams, "sum requires an array of numbers")
		}
		var total int64
		var fractional float64
		var isFloat bool
		for _, el := range params.Elements() {
			n, ok := el.Num()
			if !ok {
				return jsonvalue.Value{}, rpcmsg.NewErrorf(rpcmsg.InvalidParams, "sum requires numeric elements")
			}
			if n.Kind() == jsonvalue.KindF64 {
				isFloat = true
			}
			total += n.AsInt64()
			fractional += n.AsFloat64()
		}
		if isFloat {
			return jsonvalue.NewNumber(jsonvalue.Float64(fractional)), nil
		}
		return jsonvalue.NewNumber(jsonvalue.Int64(total)), nil
	})

	rpc.AddCommand("time", func(alloc arena.Allocator, params jsonvalue.Value) (jsonvalue.Value, *rpcmsg.Error) {
		return jsonvalue.NewString(alloc, time.Now().UTC().Format(time.RFC3339)), nil
	})
}
