package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paulobarcelos/runway-compass-sub001/internal/config"
	"github.com/paulobarcelos/runway-compass-sub001/internal/core"
	"github.com/paulobarcelos/runway-compass-sub001/internal/events"
	"github.com/paulobarcelos/runway-compass-sub001/internal/metadata"
	"github.com/paulobarcelos/runway-compass-sub001/internal/plan"
	"github.com/paulobarcelos/runway-compass-sub001/internal/sheets/google"
	"github.com/paulobarcelos/runway-compass-sub001/internal/sheets/retry"
)

var (
	flagStart  string
	flagMonths int
	flagFile   string
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	rootCmd := &cobra.Command{
		Use:   "runway-compass",
		Short: "Budget-horizon planner backed by a Google Sheets spreadsheet",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the materialized budget plan records as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			res, err := svc.Load(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(loadResultJSON(res))
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Replace the budget plan with records from a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := horizonFromFlags()
			if err != nil {
				return err
			}
			records, err := readRecordsFile(flagFile)
			if err != nil {
				return err
			}
			svc, cleanup, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			if err := svc.Save(cmd.Context(), records, target); err != nil {
				return err
			}
			fmt.Printf("saved %d records over %d months from %s\n", len(records), target.MonthCount, target.Start.Format("2006-01"))
			return nil
		},
	}
	saveCmd.Flags().StringVar(&flagFile, "file", "", "JSON file with the records to save")
	saveCmd.MarkFlagRequired("file")

	expandCmd := &cobra.Command{
		Use:   "expand",
		Short: "Grow the horizon, carrying each category's last value into new months",
		RunE:  func(cmd *cobra.Command, _ []string) error { return runResize(cmd.Context(), "expand") },
	}

	shrinkCmd := &cobra.Command{
		Use:   "shrink",
		Short: "Shrink the horizon, discarding months outside the new window",
		RunE:  func(cmd *cobra.Command, _ []string) error { return runResize(cmd.Context(), "shrink") },
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Probe the metadata region and plan sheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.Context())
		},
	}

	for _, c := range []*cobra.Command{saveCmd, expandCmd, shrinkCmd} {
		c.Flags().StringVar(&flagStart, "start", "", "target horizon start (YYYY-MM or YYYY-MM-DD)")
		c.Flags().IntVar(&flagMonths, "months", 0, "target horizon month count (1-120)")
		c.MarkFlagRequired("start")
		c.MarkFlagRequired("months")
	}

	rootCmd.AddCommand(listCmd, saveCmd, expandCmd, shrinkCmd, statusCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newService builds the full stack: Sheets client, retry decorator, metadata
// store, optional event publisher and the plan service.
func newService(ctx context.Context) (*plan.Service, func(), error) {
	// Best effort; a missing .env is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	client, err := google.NewFromEnv(ctx)
	if err != nil {
		return nil, nil, err
	}
	store := retry.Wrap(client, cfg.RetryMaxElapsed)
	metaStore := metadata.NewStore(store, cfg.MetadataSheetName)

	cleanup := func() {}
	var publisher plan.EventPublisher
	if cfg.AMQPURL != "" {
		p, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Events are advisory; run without them rather than failing.
			slog.WarnContext(ctx, "AMQP unavailable, continuing without events", "error", err)
		} else {
			publisher = p
			cleanup = func() { p.Close() }
		}
	}

	return plan.NewService(store, metaStore, cfg.PlanSheetName, publisher), cleanup, nil
}

func runResize(ctx context.Context, direction string) error {
	target, err := horizonFromFlags()
	if err != nil {
		return err
	}
	svc, cleanup, err := newService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var applied core.HorizonMetadata
	if direction == "expand" {
		applied, err = svc.ExpandHorizon(ctx, target)
	} else {
		applied, err = svc.ShrinkHorizon(ctx, target)
	}
	if err != nil {
		return err
	}
	fmt.Printf("horizon is now %s for %d months\n", applied.Start.Format("2006-01"), applied.MonthCount)
	return nil
}

// runStatus probes the metadata region and the plan sheet header in
// parallel and reports what it finds.
func runStatus(ctx context.Context) error {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	client, err := google.NewFromEnv(ctx)
	if err != nil {
		return err
	}
	store := retry.Wrap(client, cfg.RetryMaxElapsed)
	metaStore := metadata.NewStore(store, cfg.MetadataSheetName)

	var (
		meta       core.HorizonMetadata
		headerCols int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := metaStore.Horizon(gctx, time.Now())
		if err != nil {
			return fmt.Errorf("metadata region: %w", err)
		}
		meta = m
		return nil
	})
	g.Go(func() error {
		values, err := store.ReadRange(gctx, cfg.PlanSheetName+"!1:1")
		if err != nil {
			return fmt.Errorf("plan sheet: %w", err)
		}
		if len(values) > 0 {
			headerCols = len(values[0])
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("horizon: start=%s months=%d\n", meta.Start.Format("2006-01"), meta.MonthCount)
	fmt.Printf("plan sheet %q: %d header columns (expected %d)\n",
		cfg.PlanSheetName, headerCols, 1+2*meta.MonthCount)
	return nil
}

func horizonFromFlags() (core.HorizonMetadata, error) {
	t, err := time.Parse("2006-01-02", flagStart)
	if err != nil {
		t, err = time.Parse("2006-01", flagStart)
	}
	if err != nil {
		return core.HorizonMetadata{}, fmt.Errorf("invalid --start %q: want YYYY-MM or YYYY-MM-DD", flagStart)
	}
	return core.HorizonMetadata{
		Start:      core.NewDate(t.Year(), int(t.Month()), 1),
		MonthCount: flagMonths,
	}, nil
}

// recordJSON is the wire form used by the save file and list output.
type recordJSON struct {
	RecordID        string          `json:"record_id,omitempty"`
	CategoryID      string          `json:"category_id"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency,omitempty"`
	RolloverBalance decimal.Decimal `json:"rollover_balance"`
}

type planJSON struct {
	Start      string       `json:"start"`
	MonthCount int          `json:"month_count"`
	Records    []recordJSON `json:"records"`
}

func loadResultJSON(res plan.LoadResult) planJSON {
	out := planJSON{
		Start:      res.Metadata.Start.Format("2006-01"),
		MonthCount: res.Metadata.MonthCount,
		Records:    make([]recordJSON, 0, len(res.Records)),
	}
	for _, r := range res.Records {
		out.Records = append(out.Records, recordJSON{
			RecordID:        r.RecordID,
			CategoryID:      r.CategoryID,
			Month:           r.Month,
			Year:            r.Year,
			Amount:          r.Amount,
			Currency:        r.Currency,
			RolloverBalance: r.RolloverBalance,
		})
	}
	return out
}

func readRecordsFile(path string) ([]core.BudgetPlanRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}
	var in struct {
		Records []recordJSON `json:"records"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse records file: %w", err)
	}
	out := make([]core.BudgetPlanRecord, 0, len(in.Records))
	for _, r := range in.Records {
		out = append(out, core.BudgetPlanRecord{
			RecordID:        r.RecordID,
			CategoryID:      r.CategoryID,
			Month:           r.Month,
			Year:            r.Year,
			Amount:          r.Amount,
			Currency:        r.Currency,
			RolloverBalance: r.RolloverBalance,
		})
	}
	return out, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
