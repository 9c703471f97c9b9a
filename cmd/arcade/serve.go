package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/companion-arcade/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagMetricsAddr string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start SSH server for remote play",
	Long: `Start an SSH server that allows remote players to connect and play.

Players can connect with: ssh -p 23234 localhost

The server auto-generates a host key on first run at ~/.arcade/host_key.

Examples:
  arcade serve
  arcade serve --ssh :2222
  arcade serve --ssh 0.0.0.0:23234 --metrics :9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to SSH host key (auto-generated if empty)")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Serve Prometheus metrics on this address (empty = off)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 30*time.Minute, "Idle connection timeout")
	addSessionFlags(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	d, err := difficulty()
	if err != nil {
		return err
	}

	sshLogger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "arcade-ssh",
	})

	// The server opens its own store; the launcher only carries setup.
	l := newLauncher(cmd, nil, nil)
	l.Setup.Difficulty = d
	// Remote players have no local speaker.
	l.Setup.Audio = nil

	cfg := tui.SSHServerConfig{
		Address:        flagSSHAddr,
		HostKeyPath:    flagHostKey,
		DBPath:         flagDBPath,
		MetricsAddress: flagMetricsAddr,
		IdleTimeout:    flagIdleTimeout,
	}

	srv, err := tui.NewSSHServer(cfg, *l, sshLogger)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	fmt.Printf("Starting Companion Arcade SSH server on %s\n", flagSSHAddr)
	fmt.Printf("Connect with: ssh -p %s localhost\n", portOf(flagSSHAddr))
	if flagMetricsAddr != "" {
		fmt.Printf("Metrics at http://%s/metrics\n", flagMetricsAddr)
	}
	fmt.Println("Press Ctrl+C to stop")

	return srv.ListenAndServe()
}

func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
