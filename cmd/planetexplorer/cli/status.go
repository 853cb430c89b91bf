package cli

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check if the Planet Explorer server is running",
		Long:  "Query the readiness endpoint of a running server and report its upstream checks.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, serveBindings)
			if err != nil {
				return err
			}
			p, err := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			host := cfg.Server.Host
			if host == "" || host == "0.0.0.0" || host == "::" {
				host = "127.0.0.1"
			}
			readyAddr := "http://" + net.JoinHostPort(host, strconv.Itoa(cfg.Server.Port)) + "/readyz"

			client := &http.Client{Timeout: timeout}
			resp, err := client.Get(readyAddr)
			if err != nil {
				p.Error("Server is not responding at %s", readyAddr)
				return fmt.Errorf("server not running: %w", err)
			}
			defer resp.Body.Close()

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return fmt.Errorf("decode readiness response: %w", err)
			}

			if resp.StatusCode == http.StatusOK {
				p.Success("Server is running at %s", readyAddr)
			} else {
				p.Warning("Server is running but %s (%d)", body.Status, resp.StatusCode)
			}
			names := make([]string, 0, len(body.Checks))
			for name := range body.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", name, body.Checks[name])
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server is %s", body.Status)
			}
			return nil
		},
	}

	cmd.Flags().IntP("port", "p", 8080, "Port of the running server")
	cmd.Flags().String("host", "127.0.0.1", "Host of the running server")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "How long to wait for the server")

	return cmd
}
