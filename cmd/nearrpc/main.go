// Command nearrpc sends one JSON-RPC request to a NEAR node and prints the
// result.
//
// Usage:
//
//	nearrpc [flags] METHOD [PARAMS]
//
// PARAMS is inline JSON, "@file" or "-" for stdin. Comments and trailing
// commas are accepted. Params are checked against the method's request shape
// before anything is sent.
//
// With --cache-purge the local cache is trimmed first. METHOD may then be
// omitted:
//
//	nearrpc --cache-purge 720h
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"

	"github.com/near/near-jsonrpc-go/pkg/cache"
	"github.com/near/near-jsonrpc-go/pkg/codec"
	"github.com/near/near-jsonrpc-go/pkg/log"
	"github.com/near/near-jsonrpc-go/pkg/rpc"
	"github.com/near/near-jsonrpc-go/pkg/value"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("nearrpc", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	envDir := flags.String("env-dir", ".", "directory holding an optional .env file")
	url := flags.String("url", "", "RPC endpoint, overrides --network")
	network := flags.StringP("network", "n", "", "network name (mainnet, testnet or one from --networks-file)")
	networksFile := flags.String("networks-file", "", "YAML file declaring extra networks")
	timeout := flags.Duration("timeout", 0, "request timeout")
	output := flags.StringP("output", "o", "", "output format: json, yaml or table")
	useCache := flags.Bool("cache", false, "serve immutable results from the local cache")
	cachePurge := flags.Duration("cache-purge", 0, "delete cached results older than this before the call")
	list := flags.Bool("list", false, "list supported methods and exit")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: nearrpc [flags] METHOD [PARAMS]")
		fmt.Fprintln(stderr, "       nearrpc --cache-purge DURATION")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *list {
		for _, m := range rpc.Methods {
			fmt.Fprintln(stdout, m)
		}
		return exitOK
	}

	cfg, err := LoadConfig(*envDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if flags.Changed("url") {
		cfg.URL = *url
	}
	if flags.Changed("network") {
		cfg.Network = *network
	}
	if flags.Changed("networks-file") {
		cfg.NetworksFile = *networksFile
	}
	if flags.Changed("timeout") {
		cfg.Timeout = *timeout
	}
	if flags.Changed("output") {
		cfg.Output = *output
	}
	if flags.Changed("cache") {
		cfg.UseCache = *useCache
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: invalid configuration: %v\n", err)
		return exitUsage
	}

	lg := log.NewZapLogger(cfg.Log).WithName("nearrpc")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	positional := flags.Args()
	purge := flags.Changed("cache-purge")
	if purge && *cachePurge < 0 {
		fmt.Fprintf(stderr, "Error: --cache-purge must not be negative, got %s\n", *cachePurge)
		return exitUsage
	}
	if (len(positional) == 0 && !purge) || len(positional) > 2 {
		flags.Usage()
		return exitUsage
	}

	var (
		method     rpc.Method
		paramsText []byte
	)
	if len(positional) > 0 {
		method = rpc.Method(positional[0])
		if !isKnownMethod(method) {
			fmt.Fprintf(stderr, "Error: unknown method '%s', see --list\n", method)
			return exitUsage
		}
	}
	if len(positional) == 2 {
		if paramsText, err = readParams(positional[1], stdin); err != nil {
			fmt.Fprintf(stderr, "Error: read params: %v\n", err)
			return exitUsage
		}
	}

	if purge {
		report := stdout
		if method != "" {
			report = stderr
		}
		if err := purgeCache(ctx, report, cfg.Cache, *cachePurge, lg); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		if method == "" {
			return exitOK
		}
	}

	networks, err := LoadNetworks(cfg.NetworksFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	endpoint, err := cfg.ResolveEndpoint(networks)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	dialerCfg := rpc.DefaultHTTPDialerConfig
	dialerCfg.Timeout = cfg.Timeout
	dialerCfg.Headers = make(map[string]string, len(endpoint.Headers)+1)
	for k, v := range endpoint.Headers {
		dialerCfg.Headers[k] = v
	}
	if cfg.APIKey != "" {
		dialerCfg.Headers["x-api-key"] = cfg.APIKey
	}
	dialer := rpc.NewHTTPDialer(endpoint.URL, dialerCfg)

	opts := []rpc.ClientOption{rpc.WithLogger(lg)}
	if cfg.UseCache {
		store, err := cache.Open(cfg.Cache, lg)
		if err != nil {
			fmt.Fprintf(stderr, "Error: open cache: %v\n", err)
			return exitFailure
		}
		defer store.Close()
		opts = append(opts, rpc.WithCache(store))
	}

	client, err := rpc.NewClient(dialer, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	params, err := parseParams(client.Codec(), method, paramsText)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if path := codec.Path(err); path != "" {
			fmt.Fprintf(stderr, "  at: %s\n", path)
		}
		return exitUsage
	}

	lg.Debug("sending request", "network", endpoint.Name, "url", endpoint.URL, "method", method)

	var result value.Value
	if err := client.Call(ctx, method, params, &result); err != nil {
		printCallError(stderr, client.Codec(), err)
		return exitFailure
	}

	if err := render(stdout, cfg.Output, result); err != nil {
		fmt.Fprintf(stderr, "Error: render result: %v\n", err)
		return exitFailure
	}
	return exitOK
}

// purgeCache deletes cache entries stored more than olderThan ago and
// reports what is left.
func purgeCache(ctx context.Context, w io.Writer, cfg cache.Config, olderThan time.Duration, lg log.Logger) error {
	store, err := cache.Open(cfg, lg)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	removed, err := store.Purge(ctx, olderThan)
	if err != nil {
		return err
	}
	remaining, err := store.Count(ctx)
	if err != nil {
		return err
	}

	lg.Debug("cache purged", "older_than", olderThan, "removed", removed, "remaining", remaining)
	fmt.Fprintf(w, "purged %d cache entries, %d remaining\n", removed, remaining)
	return nil
}

// printCallError reports err, expanding node errors into their structured
// kind when the node sent one.
func printCallError(w io.Writer, c *codec.Codec, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var rpcErr *rpc.Error
	if !errors.As(err, &rpcErr) {
		if path := codec.Path(err); path != "" {
			fmt.Fprintf(w, "  at: %s\n", path)
		}
		return
	}

	if kind, kindErr := rpcErr.Kind(c); kindErr == nil {
		fmt.Fprintf(w, "  kind: %T\n", kind)
	}
	if rpcErr.Cause != nil {
		fmt.Fprintf(w, "  cause: %s\n", rpcErr.Cause.String())
	}
	if rpcErr.Data != nil {
		fmt.Fprintf(w, "  data: %s\n", rpcErr.Data.String())
	}
}
