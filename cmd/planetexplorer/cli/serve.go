package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planetexplorer/planetexplorer/internal/server"
	"github.com/planetexplorer/planetexplorer/internal/state"
)

const banner = `
 ___ _                 _     ___            _
| _ \ |__ _ _ _  ___| |_  | __|_ ___ __| |___ _ _ ___ _ _
|  _/ / _' | ' \/ -_)  _| | _|\ \ / '_ \ / _ \ '_/ -_) '_|
|_| |_\__,_|_||_\___|\__| |___/_\_\ .__/_\___/_| \___|_|
                                  |_|
`

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Planet Explorer API server",
		Long: `Start the HTTP server that exposes the planets API, the planet list and
detail screen states (with live updates over Server-Sent Events), Prometheus
metrics and the OpenAPI document.`,
		RunE: runServe,
	}

	cmd.Flags().IntP("port", "p", 8080, "HTTP listen port")
	cmd.Flags().String("host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().Int("rate-limit", 120, "Requests per minute per client IP (0 disables)")

	return cmd
}

var serveBindings = map[string]string{
	"server.port":       "port",
	"server.host":       "host",
	"server.rate_limit": "rate-limit",
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, serveBindings)
	if err != nil {
		return err
	}
	cfg := a.cfg

	list := state.NewListHolder(a.getPlanets, a.holderOptions()...)

	srvCfg := server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ShutdownTimeout: cfg.Server.ShutdownDuration(),
		CORSOrigins:     cfg.Server.CORS.Origins,
		RateLimit:       cfg.Server.RateLimit,
	}
	srv := server.New(srvCfg, server.Deps{
		Planets:       a.getPlanets,
		Planet:        a.getPlanet,
		ListHolder:    list,
		DetailOptions: a.holderOptions(),
		Upstream:      a.client,
		Metrics:       a.metrics,
	}, a.logger)

	out := cmd.OutOrStdout()
	fmt.Fprint(out, banner)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "→ Planet Explorer %s\n", versionString())
	fmt.Fprintf(out, "→ Listening on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Fprintf(out, "→ Planets API: %s\n", a.client.BaseURL())
	fmt.Fprintf(out, "→ OpenAPI:     http://%s:%d/openapi.json\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Fprintf(out, "→ Metrics:     http://%s:%d/metrics\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Fprintln(out)

	return srv.ListenAndServe(cmd.Context())
}
