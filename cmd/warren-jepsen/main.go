package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/cuemby/warren-jepsen/pkg/checker"
	"github.com/cuemby/warren-jepsen/pkg/config"
	"github.com/cuemby/warren-jepsen/pkg/kvdb"
	"github.com/cuemby/warren-jepsen/pkg/metrics"
	"github.com/cuemby/warren-jepsen/pkg/orchestrator"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "warren-jepsen",
	Short:   "A distributed-systems correctness tester",
	Long:    "warren-jepsen drives a cluster of nodes through a scripted workload mixed with induced failures, records a totally-ordered history of client invocations and completions, and checks it for consistency violations.",
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("warren-jepsen version %s\nCommit: %s\n", Version, Commit))
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one test case against the reference register DB",
	Long: `Run loads a Test Configuration from --config, merges it with any
CLI overrides, wires the reference raft-backed register DB/Client and CEL
checker from pkg/kvdb and pkg/checker, and runs one complete case end to
end: OS/DB setup, nemesis + worker case, checking, and result persistence.`,
	RunE: runE,
}

func init() {
	runCmd.Flags().String("config", "", "path to a YAML Test Configuration (required)")
	runCmd.Flags().StringSlice("node", nil, "node identifier (repeatable); overrides the config file's node list")
	runCmd.Flags().Int("concurrency", -1, "worker concurrency; overrides the config file's value")
	runCmd.Flags().String("name", "", "test name; overrides the config file's value and enables snapshot persistence")
	runCmd.Flags().String("checker-expr", "", "CEL expression overriding the config file's checker_expression")
	runCmd.Flags().Int64("seed", 1, "RegisterGenerator random seed")
	runCmd.Flags().Int("metrics-port", 0, "if > 0, serve Prometheus metrics on this port for the run's duration")
	_ = runCmd.MarkFlagRequired("config")
}

func runE(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	nodes, _ := cmd.Flags().GetStringSlice("node")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	name, _ := cmd.Flags().GetString("name")
	checkerExpr, _ := cmd.Flags().GetString("checker-expr")
	seed, _ := cmd.Flags().GetInt64("seed")
	metricsPort, _ := cmd.Flags().GetInt("metrics-port")

	file, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if checkerExpr != "" {
		file.Checker = checkerExpr
	}

	cfg := file.Build(config.Overrides{Nodes: nodes, Concurrency: concurrency, Name: name})

	db := kvdb.NewDB(cfg.StorageDir)
	cfg.OS = kvdb.NoopOS{}
	cfg.DB = db
	cfg.Client = kvdb.NewClient(db)
	cfg.Nemesis = kvdb.NoopNemesis{}

	keys := file.Keys
	if len(keys) == 0 {
		keys = []string{"x"}
	}
	opsPerProc := file.OpsPerProc
	if opsPerProc <= 0 {
		opsPerProc = 20
	}
	cfg.Generator = kvdb.NewRegisterGenerator(keys, opsPerProc, seed)

	regChecker, err := checker.NewRegisterChecker(file.Checker)
	if err != nil {
		return fmt.Errorf("building checker: %w", err)
	}
	cfg.Checker = regChecker

	recorder := metrics.NewRecorder()
	cfg.Metrics = recorder
	if metricsPort > 0 {
		srv := &http.Server{Addr: fmt.Sprintf(":%d", metricsPort), Handler: recorder.Handler()}
		go func() {
			_ = srv.ListenAndServe()
		}()
		defer srv.Close()
	}

	summary, err := orchestrator.Run(context.Background(), cfg)
	if summary != nil {
		fmt.Println(summary.String())
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	if summary != nil && !summary.Result.Valid {
		os.Exit(1)
	}
	return nil
}
