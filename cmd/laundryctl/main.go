package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"laundry-status-monitor/config"
	"laundry-status-monitor/internal/collector"
	"laundry-status-monitor/internal/db"
	"laundry-status-monitor/internal/logging"
	"laundry-status-monitor/internal/model"
	"laundry-status-monitor/internal/rank"
	"laundry-status-monitor/internal/render"
	"laundry-status-monitor/internal/scraper"
	"laundry-status-monitor/internal/store"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	cfg        *config.Config
	out        io.Writer
}

func (a *app) client() *scraper.Client {
	return scraper.NewClient(a.cfg.Scraper)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out}

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "./config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:           "laundryctl",
		Short:         "Inspect and record laundry room availability",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(a.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			return logging.Setup(cfg.Log)
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", defaultConfig, "Path to the YAML configuration file")

	cmd.AddCommand(newRoomsCommand(a))
	cmd.AddCommand(newMachinesCommand(a))
	cmd.AddCommand(newBoardCommand(a))
	cmd.AddCommand(newRecordCommand(a))
	cmd.AddCommand(newExportCommand(a))
	return cmd
}

func newRoomsCommand(a *app) *cobra.Command {
	var (
		label  string
		sortBy string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Show live washer and dryer availability per room",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sortBy != "all" {
				if _, ok := rank.By(sortBy, nil); !ok {
					return fmt.Errorf("unknown sort %q: use label, washers, dryers or all", sortBy)
				}
			}

			ctx := commandContext(cmd)
			client := a.client()
			rooms, err := client.GetRooms(ctx, label)
			if err != nil {
				return err
			}
			summaries, err := client.GetRoomSummaries(ctx, rooms)
			if err != nil {
				return err
			}

			if asJSON {
				sorted := summaries
				if sortBy != "all" {
					sorted, _ = rank.By(sortBy, summaries)
				}
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(sorted)
			}

			engine, err := render.NewEngine()
			if err != nil {
				return err
			}
			if sortBy == "all" {
				return engine.WriteReport(a.out, summaries)
			}
			sorted, _ := rank.By(sortBy, summaries)
			report, err := engine.Rooms(titleFor(sortBy), sorted)
			if err != nil {
				return err
			}
			_, err = io.WriteString(a.out, report)
			return err
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Only rooms whose label contains this text")
	cmd.Flags().StringVar(&sortBy, "sort", "all", "Ordering: label, washers, dryers or all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summaries as JSON")
	return cmd
}

func titleFor(sortBy string) string {
	switch sortBy {
	case "washers", "washer":
		return "WASHER"
	case "dryers", "dryer":
		return "DRYER"
	default:
		return "LABEL"
	}
}

func newMachinesCommand(a *app) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "machines",
		Short: "Draw the machines of the first room matching a label",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			client := a.client()
			rooms, err := client.GetRooms(ctx, label)
			if err != nil {
				return err
			}
			if len(rooms) == 0 {
				return &collector.EmptyResultWarning{Label: label}
			}
			machines, err := client.GetMachines(ctx, rooms[0].RoomID)
			if err != nil {
				return err
			}
			return render.WriteMachines(a.out, machines)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Text the room label must contain")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func newBoardCommand(a *app) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Draw the machines of every room",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			client := a.client()
			rooms, err := client.GetRooms(ctx, label)
			if err != nil {
				return err
			}

			machines := make([][]model.Machine, len(rooms))
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(a.cfg.Scraper.Concurrency)
			for i, room := range rooms {
				g.Go(func() error {
					m, err := client.GetMachines(gctx, room.RoomID)
					machines[i] = m
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			byRoom := make(map[string][]model.Machine, len(rooms))
			for i, room := range rooms {
				byRoom[room.RoomID] = machines[i]
			}
			return render.WriteBoard(a.out, rooms, byRoom)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Only rooms whose label contains this text")
	return cmd
}

// openStore builds the configured snapshot store. The returned gorm handle is nil
// unless the database driver is selected.
func (a *app) openStore() (store.Store, *gorm.DB, error) {
	var gormDB *gorm.DB
	if a.cfg.Storage.Driver == "database" {
		var err error
		gormDB, err = db.Init(&a.cfg.Database)
		if err != nil {
			return nil, nil, err
		}
	}
	st, err := store.New(a.cfg.Storage, gormDB)
	if err != nil {
		return nil, gormDB, err
	}
	return st, gormDB, nil
}

func closeDB(gormDB *gorm.DB) {
	if gormDB == nil {
		return
	}
	if err := db.Close(gormDB); err != nil {
		logrus.WithError(err).Warn("Failed to close database")
	}
}

func newRecordCommand(a *app) *cobra.Command {
	var (
		labels []string
		fixed  bool
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Append one snapshot of every configured label to storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Collector
			if len(labels) > 0 {
				cfg.Labels = labels
			}
			if fixed {
				cfg.Naming = "fixed"
			}

			st, gormDB, err := a.openStore()
			defer closeDB(gormDB)
			if err != nil {
				return err
			}

			rec := collector.NewRecorder(a.client(), st, cfg)
			return rec.RecordAll(commandContext(cmd))
		},
	}

	cmd.Flags().StringSliceVar(&labels, "label", nil, "Label to record (repeatable); defaults to collector.labels")
	cmd.Flags().BoolVar(&fixed, "fixed", false, "Append to the fixed series instead of the daily one")
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export SERIES",
		Short: "Print a stored series as a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, gormDB, err := a.openStore()
			defer closeDB(gormDB)
			if err != nil {
				return err
			}
			if nd, ok := st.(*store.NDJSONStore); ok {
				return nd.Export(commandContext(cmd), args[0], a.out)
			}

			records, err := st.Load(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return store.WriteArray(a.out, records)
		},
	}
}
