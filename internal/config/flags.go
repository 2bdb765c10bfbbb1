package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds a host and port. It implements flag.Value.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses args with a dedicated flag set named after the binary.
//
// Flags:
//
//	-a                  server listen address host:port
//	-r                  remote store address host:port
//	-d                  server database DSN
//	-cache              local cache DSN
//	-c / -config        JSON config file path
//	-namespace          cache key namespace
//	-token              bearer token of the remote store
//	-memory             use the in-process remote store
//	-request-timeout    request timeout (e.g. 10s)
//	-fallback-timeout   bounded wait before offline fallback (e.g. 6s)
//	-grace-delay        syncing grace delay (e.g. 800ms)
//	-broadcast          broadcast mode: multicast, hub or off
//	-token-sign-key     token signing key
//	-token-issuer       token issuer
//	-token-duration     token lifetime (e.g. 8760h)
func parseFlags(name string, args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var serverAddress, remoteAddress NetAddress
	var (
		databaseDSN     string
		cacheDSN        string
		jsonConfigPath  string
		namespace       string
		token           string
		memory          bool
		requestTimeout  time.Duration
		fallbackTimeout time.Duration
		graceDelay      time.Duration
		broadcastMode   string
		tokenSignKey    string
		tokenIssuer     string
		tokenDuration   time.Duration
	)

	fs.Var(&serverAddress, "a", "Server listen address host:port")
	fs.Var(&remoteAddress, "r", "Remote store address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Server database DSN")
	fs.StringVar(&cacheDSN, "cache", "", "Local cache DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&namespace, "namespace", "", "Cache key namespace")
	fs.StringVar(&token, "token", "", "Remote store bearer token")
	fs.BoolVar(&memory, "memory", false, "Use the in-process remote store")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 10s)")
	fs.DurationVar(&fallbackTimeout, "fallback-timeout", 0, "Bounded wait before offline fallback (e.g., 6s)")
	fs.DurationVar(&graceDelay, "grace-delay", 0, "Syncing grace delay (e.g., 800ms)")
	fs.StringVar(&broadcastMode, "broadcast", "", "Broadcast mode: multicast, hub or off")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 8760h)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			Namespace: namespace,
		},
		Storage: Storage{
			Cache: DB{DSN: cacheDSN},
			DB:    DB{DSN: databaseDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    remoteAddress.String(),
			RequestTimeout: requestTimeout,
			Token:          token,
			Memory:         memory,
		},
		Sync: Sync{
			FallbackTimeout: fallbackTimeout,
			GraceDelay:      graceDelay,
		},
		Broadcast: Broadcast{
			Mode: broadcastMode,
		},
		Auth: Auth{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns host:port, or "" when neither part is set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses host:port. The host must be "localhost", an IP address or empty
// (all interfaces).
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(s))
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}
	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
