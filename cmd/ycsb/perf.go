package ycsb

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dTree/cmd/util"
	"github.com/ValentinKolb/dTree/lib/record"
	"github.com/google/uuid"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfCmd = &cobra.Command{
		Use:   "perf",
		Short: "Load generator measuring the YCSB client against a dTree server",
		Long: `Load generator measuring the YCSB client against a dTree server.
Every run writes into a fresh table named perf-<uuid>. Records are not removed afterwards.
The read, update and mixed workloads work on the records of the insert workload, so insert can not be skipped.`,
		PreRunE: processPerfConfig,
		RunE:    runPerf,
	}
	perfThreads        = 10
	perfRecords        = 1000
	perfOperations     = 10000
	perfFieldCount     = 10
	perfFieldLength    = 100
	perfReadProportion = 0.5
	perfSkip           = make([]string, 0)
)

// percentiles reported for every workload
var perfPercentiles = []float64{0.5, 0.95, 0.99}

func init() {
	key := "threads"
	perfCmd.Flags().Int(key, 10, util.WrapString("Number of goroutines issuing operations"))
	key = "records"
	perfCmd.Flags().Int(key, 1000, util.WrapString("Number of records inserted in the load phase"))
	key = "operations"
	perfCmd.Flags().Int(key, 10000, util.WrapString("Number of operations of every other workload"))
	key = "field-count"
	perfCmd.Flags().Int(key, 10, util.WrapString("Number of fields per record"))
	key = "field-length"
	perfCmd.Flags().Int(key, 100, util.WrapString("Length of every field value"))
	key = "read-proportion"
	perfCmd.Flags().Float64(key, 0.5, util.WrapString("Share of reads in the mixed workload, the rest are updates"))
	key = "skip"
	perfCmd.Flags().String(key, "", util.WrapString("Workloads to skip (comma separated - e.g. read,mixed). The insert workload always runs"))
	key = "csv"
	perfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfThreads = max(viper.GetInt("threads"), 1)
	perfRecords = max(viper.GetInt("records"), 1)
	perfOperations = max(viper.GetInt("operations"), 0)
	perfFieldCount = max(viper.GetInt("field-count"), 1)
	perfFieldLength = max(viper.GetInt("field-length"), 0)
	perfReadProportion = viper.GetFloat64("read-proportion")
	if perfReadProportion < 0 || perfReadProportion > 1 {
		return fmt.Errorf("read-proportion must be between 0 and 1, got %v", perfReadProportion)
	}
	perfSkip = strings.Split(viper.GetString("skip"), ",")
	if shouldSkip("insert") {
		return fmt.Errorf("the insert workload can not be skipped, every run starts with an empty table")
	}

	return nil
}

// perfResult is the outcome of one workload
type perfResult struct {
	name    string
	timer   gometrics.Timer
	errors  gometrics.Counter
	elapsed time.Duration
	skipped bool
}

func runPerf(_ *cobra.Command, _ []string) error {
	table := fmt.Sprintf("perf-%s", uuid.NewString())

	fmt.Println("Performance testing tool for the dTree YCSB client")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Println(db.Options().String())
	fmt.Printf("Table: %s\n", table)
	fmt.Printf("Threads: %d, Records: %d, Operations: %d\n", perfThreads, perfRecords, perfOperations)
	fmt.Println()

	fmt.Println("starting workloads...")

	registry := gometrics.NewRegistry()
	defer registry.UnregisterAll()

	ctx := context.Background()
	var results []perfResult

	// load phase, later workloads need the records
	results = append(results, runWorkload(registry, "insert", perfRecords, func(i int) error {
		return db.Insert(ctx, table, recordKey(i), randomRecord())
	}))

	results = append(results, runWorkload(registry, "read", perfOperations, func(i int) error {
		_, err := db.Read(ctx, table, recordKey(rand.IntN(perfRecords)), nil)
		return err
	}))

	results = append(results, runWorkload(registry, "update", perfOperations, func(i int) error {
		return db.Update(ctx, table, recordKey(rand.IntN(perfRecords)), randomUpdate())
	}))

	results = append(results, runWorkload(registry, "mixed", perfOperations, func(i int) error {
		key := recordKey(rand.IntN(perfRecords))
		if rand.Float64() < perfReadProportion {
			_, err := db.Read(ctx, table, key, nil)
			return err
		}
		return db.Update(ctx, table, key, randomUpdate())
	}))

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// runWorkload spreads ops calls of op over perfThreads goroutines and records the latency of every call
func runWorkload(registry gometrics.Registry, name string, ops int, op func(i int) error) perfResult {
	result := perfResult{
		name:   name,
		timer:  gometrics.GetOrRegisterTimer(name+".latency", registry),
		errors: gometrics.GetOrRegisterCounter(name+".errors", registry),
	}
	if shouldSkip(name) || ops == 0 {
		result.skipped = true
		printResult(result)
		return result
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < perfThreads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1) - 1)
				if i >= ops {
					return
				}
				opStart := time.Now()
				err := op(i)
				result.timer.UpdateSince(opStart)
				if err != nil {
					result.errors.Inc(1)
					util.Logger.Warningf("(%s) - operation failed: %v", name, err)
					_ = util.ExitOnError(fatal(), err)
				}
			}
		}()
	}

	wg.Wait()
	result.elapsed = time.Since(start)
	printResult(result)
	return result
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(workload string) bool {
	for _, skip := range perfSkip {
		if workload == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

func recordKey(i int) string {
	return fmt.Sprintf("user%d", i)
}

const valueAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomValue returns a value that never contains the characters of the record syntax
func randomValue() string {
	b := make([]byte, perfFieldLength)
	for i := range b {
		b[i] = valueAlphabet[rand.IntN(len(valueAlphabet))]
	}
	return string(b)
}

func randomRecord() record.Record {
	r := make(record.Record, perfFieldCount)
	for i := range r {
		r[i] = record.Field{Name: fmt.Sprintf("field%d", i), Value: randomValue()}
	}
	return r
}

// randomUpdate changes a single field like the default YCSB workloads do
func randomUpdate() record.Record {
	return record.Record{{Name: fmt.Sprintf("field%d", rand.IntN(perfFieldCount)), Value: randomValue()}}
}

// opsPerSec returns the throughput of a finished workload
func (r perfResult) opsPerSec() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.timer.Count()) / r.elapsed.Seconds()
}

// printResult prints the result of a workload in a formatted way
func printResult(r perfResult) {
	if r.skipped {
		fmt.Printf("%-10sskipped\n", r.name)
		return
	}

	ps := r.timer.Percentiles(perfPercentiles)
	fmt.Printf("%-10s%8d ops  %8d errors  %10.0f ops/sec  mean %-12s p50 %-12s p95 %-12s p99 %-12s max %s\n",
		r.name,
		r.timer.Count(),
		r.errors.Count(),
		r.opsPerSec(),
		time.Duration(r.timer.Mean()),
		time.Duration(ps[0]),
		time.Duration(ps[1]),
		time.Duration(ps[2]),
		time.Duration(r.timer.Max()),
	)
}

// writeResultsToCSV writes workload results to a CSV file
func writeResultsToCSV(csvPath string, results []perfResult) (err error) {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer func() {
		if cErr := file.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("failed to close CSV file: %v", cErr)
		}
	}()

	writer := csv.NewWriter(file)

	config := util.GetClientConfig()
	opts := db.Options()

	// Write header
	header := []string{
		"Workload", "Ops", "Errors", "OpsPerSec", "MeanNs", "P50Ns", "P95Ns", "P99Ns", "MaxNs", "Skipped",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"ShardID", "Serializer", "Transport",
		"Pooled", "PoolSize", "Threads", "Records", "FieldCount", "FieldLength",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write workload results
	for _, r := range results {
		ps := r.timer.Percentiles(perfPercentiles)
		row := []string{
			r.name,
			strconv.FormatInt(r.timer.Count(), 10),
			strconv.FormatInt(r.errors.Count(), 10),
			fmt.Sprintf("%.0f", r.opsPerSec()),
			fmt.Sprintf("%.0f", r.timer.Mean()),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			fmt.Sprintf("%.0f", ps[2]),
			strconv.FormatInt(r.timer.Max(), 10),
			strconv.FormatBool(r.skipped),
			strings.Join(config.Transport.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.Transport.RetryCount),
			strconv.Itoa(config.Transport.ConnectionsPerEndpoint),
			strconv.FormatUint(util.GetShardID(), 10),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.FormatBool(opts.Pooled),
			strconv.Itoa(opts.PoolSize),
			strconv.Itoa(perfThreads),
			strconv.Itoa(perfRecords),
			strconv.Itoa(perfFieldCount),
			strconv.Itoa(perfFieldLength),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for workload %s: %v", r.name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %v", err)
	}
	return nil
}
