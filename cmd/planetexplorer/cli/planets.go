package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/planetexplorer/planetexplorer/internal/handoff"
	"github.com/planetexplorer/planetexplorer/internal/model"
	"github.com/planetexplorer/planetexplorer/internal/state"
)

func newPlanetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planets",
		Short: "Browse planets",
		Long:  "List planets, show a single planet, or open a planet from a handoff payload.",
	}

	cmd.AddCommand(newPlanetsListCmd())
	cmd.AddCommand(newPlanetsShowCmd())
	cmd.AddCommand(newPlanetsOpenCmd())

	return cmd
}

// ---------- planets list ----------

func newPlanetsListCmd() *cobra.Command {
	var (
		page       int
		jsonOutput bool
		retries    int
		retryDelay time.Duration
		handoffs   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of planets",
		Example: `  planetexplorer planets list
  planetexplorer planets list --page 2 --json
  planetexplorer planets list --retries 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return fmt.Errorf("--page must be at least 1")
			}
			if retries < 0 {
				return fmt.Errorf("--retries must not be negative")
			}
			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			p, err := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			holder := state.NewListHolder(a.getPlanets, append(a.holderOptions(), state.WithPage(page))...)
			defer holder.Close()

			planets, err := awaitPlanets(cmd.Context(), holder, p, retries, retryDelay)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), planets)
			}
			if len(planets) == 0 {
				p.Info("No planets on page %d.", page)
				return nil
			}
			if err := p.PlanetTable(planets); err != nil {
				return err
			}
			if handoffs {
				for _, pl := range planets {
					payload, err := handoff.Encode(pl)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", pl.ID, payload)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number to fetch")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output planets as JSON")
	cmd.Flags().IntVar(&retries, "retries", 0, "Retry a failed load up to this many times")
	cmd.Flags().DurationVar(&retryDelay, "retry-delay", time.Second, "Delay between retries")
	cmd.Flags().BoolVar(&handoffs, "handoff", false, "Also print each planet's handoff payload for 'planets open'")

	return cmd
}

// awaitPlanets drives the list holder until it settles on a success, retrying
// failures up to retries times.
func awaitPlanets(ctx context.Context, holder *state.ListHolder, p *printer, retries int, delay time.Duration) ([]model.Planet, error) {
	sub := holder.Subscribe(ctx)
	defer sub.Close()

	for attempt := 0; ; attempt++ {
		st, err := sub.Await(ctx, state.ListState.Settled)
		if err != nil {
			return nil, err
		}
		if st.Phase == state.PhaseSuccess {
			return st.Planets, nil
		}
		if attempt >= retries {
			return nil, errors.New(st.Message)
		}
		p.Warning("%s (retry %d/%d)", st.Message, attempt+1, retries)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		holder.Retry()
	}
}

// ---------- planets show ----------

func newPlanetsShowCmd() *cobra.Command {
	var (
		jsonOutput  bool
		showHandoff bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single planet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 1 {
				return fmt.Errorf("invalid planet id %q", args[0])
			}
			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			p, err := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			planet, err := a.getPlanet.Execute(cmd.Context(), id).Get()
			if err != nil {
				return fmt.Errorf("load planet %d: %w", id, err)
			}

			if showHandoff {
				payload, err := handoff.Encode(planet)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), payload)
				return nil
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), planet)
			}
			p.PlanetDetail(planet)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the planet as JSON")
	cmd.Flags().BoolVar(&showHandoff, "handoff", false, "Print the planet's handoff payload instead")

	return cmd
}

// ---------- planets open ----------

func newPlanetsOpenCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "open <payload>",
		Short: "Open the detail screen for a planet handoff payload",
		Long: `Open the planet detail screen from a handoff payload as printed by
'planets list --handoff' or 'planets show --handoff'. No network call is made.`,
		Example: `  planetexplorer planets open "$(planetexplorer planets show 1 --handoff)"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return fmt.Errorf("empty handoff payload")
			}
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Logging, devMode)
			if err != nil {
				return err
			}
			p, err := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			holder := state.NewDetailHolder(args[0], state.WithLogger(logger))
			defer holder.Close()

			sub := holder.Subscribe(cmd.Context())
			defer sub.Close()
			st, err := sub.Await(cmd.Context(), state.DetailState.Settled)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			if st.Phase == state.PhaseError {
				p.Error("%s", st.Message)
				return errors.New(st.Message)
			}
			p.PlanetDetail(*st.Planet)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the detail state as JSON")

	return cmd
}
