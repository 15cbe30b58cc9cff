package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustyeddy/smartfolio/config"
	"github.com/rustyeddy/smartfolio/internal/server"
	"github.com/rustyeddy/smartfolio/market"
	"github.com/rustyeddy/smartfolio/portfolio"
	"github.com/rustyeddy/smartfolio/report"
	"github.com/spf13/cobra"
)

// newRunner builds a price runner over st from the simulator config.
// A non-zero seed overrides the configured one.
func newRunner(cfg config.SimulatorConfig, st *portfolio.Store, seed int64) (*market.Runner, error) {
	interval, err := cfg.ParseInterval()
	if err != nil {
		return nil, err
	}
	if interval == 0 {
		interval = 5 * time.Second
	}

	opts := []market.SimOption{market.WithVolatility(cfg.Volatility)}
	if cfg.DefaultVolatility > 0 {
		opts = append(opts, market.WithDefaultVolatility(cfg.DefaultVolatility))
	}
	if seed == 0 {
		seed = cfg.Seed
	}
	if seed != 0 {
		opts = append(opts, market.WithSeed(seed))
	}
	return &market.Runner{
		Interval:  interval,
		Simulator: market.NewSimulator(opts...),
		Target:    st,
	}, nil
}

func newSimulateCmd(a *app) *cobra.Command {
	var (
		ticks int
		dur   time.Duration
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drift prices of the active book with the simulator",
		Long: `Apply simulated price ticks to the active book. With --ticks the
ticks are applied back to back; with --for the runner ticks on the
configured interval until the duration elapses.`,
		Example: `  smartfolio simulate --ticks 100 --seed 7
  smartfolio simulate --for 1m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(a.cfg.Simulator, a.store, seed)
			if err != nil {
				return err
			}
			before := a.store.View().TotalValue

			if dur > 0 {
				ctx, cancel := context.WithTimeout(cmd.Context(), dur)
				defer cancel()
				if err := r.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
					return err
				}
			} else {
				if ticks <= 0 {
					return fmt.Errorf("--ticks must be positive")
				}
				for i := 0; i < ticks; i++ {
					r.Step()
				}
			}

			after := a.store.View().TotalValue
			fmt.Fprintf(cmd.OutOrStdout(), "Total %s -> %s (%s)\n", report.Money(before), report.Money(after), report.SignedMoney(after-before))
			return nil
		},
	}
	cmd.Flags().IntVarP(&ticks, "ticks", "n", 1, "Number of ticks to apply")
	cmd.Flags().DurationVar(&dur, "for", 0, "Run on the configured interval for this long instead")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Simulator seed (config or clock when 0)")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		noSim bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and websocket feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			srv := server.New(a.store, a.log)
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// the store is closed once RunE returns, so the runner must be
			// done ticking by then
			runnerDone := make(chan struct{})
			if noSim {
				close(runnerDone)
			} else {
				r, err := newRunner(a.cfg.Simulator, a.store, 0)
				if err != nil {
					return err
				}
				go func() {
					defer close(runnerDone)
					_ = r.Run(ctx)
				}()
				a.log.Info("price simulator started", "interval", r.Interval)
			}
			defer func() {
				stop()
				<-runnerDone
			}()

			serverErrCh := make(chan error, 1)
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					serverErrCh <- err
				}
			}()
			a.log.Info("api server started", "addr", addr)
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", a.store.ActiveAccount(), addr)

			select {
			case <-ctx.Done():
				a.log.Info("shutdown signal received")
			case err := <-serverErrCh:
				return fmt.Errorf("api server: %w", err)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown: %w", err)
			}
			a.log.Info("api server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (config server.addr when empty)")
	cmd.Flags().BoolVar(&noSim, "no-sim", false, "Do not run the price simulator")
	return cmd
}
