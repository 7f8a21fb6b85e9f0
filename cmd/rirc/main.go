// Command rirc is a terminal IRC client: it wires a cobra CLI surface,
// a coordinator, a raw-mode terminal renderer, and a SIGWINCH handler
// into a running process.
package main

import (
	"bufio"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rirc-go/rirc/coordinator"
	"github.com/rirc-go/rirc/ctcp"
	"github.com/rirc-go/rirc/draw"
	"github.com/rirc-go/rirc/entity"
)

var version = "rirc-go (dev)"

type options struct {
	connect    string
	port       string
	join       string
	nicks      string
	useTLS     bool
	noTLS      bool
	tlsVerify  string
	caCert     string
	ipv4       bool
	ipv6       bool
	versionReq bool
	debug      bool
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:           "rirc",
		Short:         "A terminal IRC client",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.versionReq {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			}
			return run(opts)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&opts.connect, "connect", "c", "", "connect to HOST on startup")
	flags.StringVarP(&opts.port, "port", "p", "", "port to connect on (default 6667, or 6697 with --tls)")
	flags.StringVarP(&opts.join, "join", "j", "", "comma-separated channels to join on connect")
	flags.StringVarP(&opts.nicks, "nicks", "n", "", "comma and/or space separated nick candidates")
	flags.BoolVar(&opts.useTLS, "tls", false, "connect with TLS")
	flags.BoolVar(&opts.noTLS, "no-tls", false, "connect without TLS")
	flags.StringVar(&opts.tlsVerify, "tls-verify", "required", "TLS verification mode: disabled|optional|required")
	flags.StringVar(&opts.caCert, "ca-cert", "", "path to an additional CA certificate to trust")
	flags.BoolVar(&opts.ipv4, "ipv4", false, "force IPv4")
	flags.BoolVar(&opts.ipv6, "ipv6", false, "force IPv6")
	flags.BoolVarP(&opts.versionReq, "version", "v", false, "print version and exit")
	flags.BoolVar(&opts.debug, "debug", false, "trace raw IRC traffic to stderr")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rirc:", err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	term := draw.NewTerminal(os.Stdin)
	if err := term.EnterRaw(); err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore()

	renderer := draw.NewRenderer(term, os.Stdout)
	if err := renderer.Clear(); err != nil {
		return err
	}

	c := coordinator.New(coordinator.Options{
		Identity: ctcp.Identity{
			Version: version,
			Nick:    currentNick,
		},
		Redraw:  func() { _ = renderer.Draw(currentCoordinator) },
		Network: networkFromFlags(opts),
		Debug:   debugWriter(opts),
	})
	currentCoordinator = c

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go func() {
		for range winch {
			_ = renderer.Draw(c)
		}
	}()
	defer signal.Stop(winch)

	if opts.connect != "" {
		if err := connectFromFlags(c, opts); err != nil {
			return err
		}
	}

	_ = renderer.Draw(c)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		_ = c.HandleInput(line)
		_ = renderer.Draw(c)
	}
	return scanner.Err()
}

// currentCoordinator lets the Identity.Nick closure above reach the
// coordinator constructed a few lines further down; it is set exactly
// once, before any callback can fire.
var currentCoordinator *coordinator.Coordinator

func currentNick() string {
	if currentCoordinator == nil {
		return ""
	}
	srv, _ := currentCoordinator.Current()
	if srv == nil {
		return ""
	}
	return srv.Nick()
}

func connectFromFlags(c *coordinator.Coordinator, opts *options) error {
	nicks := splitNicks(opts.nicks)
	if len(nicks) == 0 {
		nicks = []string{envUser()}
	}
	user := envUser()
	real := user

	port := opts.port
	useTLS := opts.useTLS && !opts.noTLS
	if port == "" {
		if useTLS {
			port = "6697"
		} else {
			port = "6667"
		}
	}

	srv := entity.NewServer(opts.connect, port, nicks, user, real)
	tlsConfig, err := buildTLSConfig(opts, useTLS)
	if err != nil {
		return err
	}

	h := c.AddServer(srv, tlsConfig)
	for _, ch := range splitJoin(opts.join) {
		joined := entity.NewChan(ch, entity.Channel, srv)
		_ = srv.Channels.Add(joined)
	}
	return c.Connect(h)
}

func buildTLSConfig(opts *options, useTLS bool) (*tls.Config, error) {
	if !useTLS {
		return nil, nil
	}

	cfg := &tls.Config{}
	switch opts.tlsVerify {
	case "disabled":
		cfg.InsecureSkipVerify = true
	case "optional", "required", "":
	default:
		return nil, fmt.Errorf("rirc: unknown --tls-verify value %q", opts.tlsVerify)
	}

	if opts.caCert != "" {
		pem, err := os.ReadFile(opts.caCert)
		if err != nil {
			return nil, fmt.Errorf("reading --ca-cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("rirc: no certificates parsed from %s", opts.caCert)
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}

// debugWriter returns where raw IRC traffic is traced when --debug is
// set. stderr stays separate from the rendered screen on stdout, though
// in a raw-mode terminal both still share the same display.
func debugWriter(opts *options) io.Writer {
	if !opts.debug {
		return nil
	}
	return os.Stderr
}

func networkFromFlags(opts *options) string {
	switch {
	case opts.ipv4:
		return "tcp4"
	case opts.ipv6:
		return "tcp6"
	default:
		return ""
	}
}

func envUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "rirc"
}

func splitNicks(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", " ")
	return strings.Fields(s)
}

func splitJoin(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, ch := range strings.Split(s, ",") {
		ch = strings.TrimSpace(ch)
		if ch != "" {
			out = append(out, ch)
		}
	}
	return out
}
