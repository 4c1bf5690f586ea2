// cmd/jrpcclient is a demo binary driving rpc/client's proactor against
// a running JSON-RPC 2.0 HTTP server (cmd/jrpcserver or any other
// compliant endpoint). It exercises the synchronous Call path, the
// fire-and-forget Notify path, and fanout.CallAll for a concurrent batch
// of calls rendered through internal/termout — demonstration glue, not
// the library's own deliverable, matching the teacher's always-ship-a-
// runnable-demo pattern.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/jrpcgo/arena"
	"github.com/dmagro/jrpcgo/config"
	"github.com/dmagro/jrpcgo/env"
	"github.com/dmagro/jrpcgo/internal/fanout"
	"github.com/dmagro/jrpcgo/internal/termout"
	"github.com/dmagro/jrpcgo/jsonvalue"
	"github.com/dmagro/jrpcgo/jsonvalue/parser"
	rpcclient "github.com/dmagro/jrpcgo/rpc/client"
	"github.com/dmagro/jrpcgo/rpcmsg"
)

const paramsArenaSize = 16 * 1024

func main() {
	env.Load()

	var (
		cfgPath string
		url     string
		timeout time.Duration
	)

	root := &cobra.Command{Use: "jrpcclient"}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file (see config.File); optional")
	root.PersistentFlags().StringVar(&url, "url", "http://localhost:8080/", "server URL, overridden by --config's client.url when set")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "per-call context timeout")

	root.AddCommand(callCmd(&cfgPath, &url, &timeout))
	root.AddCommand(notifyCmd(&cfgPath, &url, &timeout))
	root.AddCommand(batchCmd(&cfgPath, &url, &timeout))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func callCmd(cfgPath, url *string, timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "call <method> [json-params]",
		Short: "Make one synchronous JSON-RPC call and print the result",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, pool, err := newClient(*cfgPath, *url)
			if err != nil {
				return err
			}
			defer client.Close()

			params, err := parseParams(pool, args)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), *timeout)
			defer cancel()

			start := time.Now()
			result, err := client.Call(ctx, args[0], params)
			elapsed := time.Since(start)
			termout.PrintResult(args[0], elapsed, resultFrom(result, err))
			return nil
		},
	}
}

func notifyCmd(cfgPath, url *string, timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "notify <method> [json-params]",
		Short: "Send a one-way JSON-RPC notification (no response expected)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, pool, err := newClient(*cfgPath, *url)
			if err != nil {
				return err
			}
			defer client.Close()

			params, err := parseParams(pool, args)
			if err != nil {
				return err
			}
			if err := client.Notify(args[0], params); err != nil {
				return err
			}
			fmt.Printf("notified %q\n", args[0])
			return nil
		},
	}
}

func batchCmd(cfgPath, url *string, timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <method>...",
		Short: "Call several no-argument methods concurrently and print a summary table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(*cfgPath, *url)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), *timeout)
			defer cancel()

			results := fanout.CallAll(ctx, args, func(m string) string { return m },
				func(ctx context.Context, method string) (rpcclient.Result, error) {
					v, callErr := client.Call(ctx, method, jsonvalue.Value{})
					if callErr != nil {
						return rpcclient.Result{}, callErr
					}
					return rpcclient.Result{Value: v}, nil
				})
			termout.PrintBatch(results)
			return nil
		},
	}
}

func newClient(cfgPath, url string) (*rpcclient.Client, arena.Allocator, error) {
	settings := rpcclient.HTTPSettings{URL: url}
	if cfgPath != "" {
		f, err := config.Load(cfgPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
		settings = f.ClientHTTPSettings()
		if settings.URL == "" {
			settings.URL = url
		}
	}
	pool := arena.NewPool(make([]byte, paramsArenaSize))
	return rpcclient.NewClient(settings, pool), pool, nil
}

// parseParams parses args[1], if present, as a JSON array or object
// through this module's own parser rather than encoding/json — the
// demo CLI dogfoods the library the same way rpcmsg and rpc/client do.
func parseParams(alloc arena.Allocator, args []string) (jsonvalue.Value, error) {
	if len(args) < 2 {
		return jsonvalue.Value{}, nil
	}
	v, err := parser.Parse(alloc, []byte(args[1]))
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("parsing params: %w", err)
	}
	return v, nil
}

func resultFrom(v jsonvalue.Value, err error) rpcclient.Result {
	if err == nil {
		return rpcclient.Result{Value: v}
	}
	var rpcErr *rpcmsg.Error
	if errors.As(err, &rpcErr) {
		return rpcclient.Result{Err: rpcErr}
	}
	return rpcclient.Result{Err: rpcmsg.NewErrorf(rpcmsg.InternalError, "%v", err)}
}
