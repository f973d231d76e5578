package kv

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/mredis/cmd/util"
	"github.com/ValentinKolb/mredis/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:   "perf",
		Short: "Performance testing tool for mredis servers",
		Long: `Performance testing tool for mredis servers.

The server handles one connection at a time, so all threads share the
connection of this command and requests are serialized. The test keys are not
removed afterwards (there is no delete command), they all start with the
prefix __test.`,
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

// benchmark is one named performance test. prepare runs before the timer is
// started, op is called with an increasing counter per thread.
type benchmark struct {
	name    string
	prepare func(keys []string) error
	op      func(key string, counter int) error
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for mredis servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	largeValue := strings.Repeat("x", perfLargeValueSizeKB*1024)
	setAll := func(keys []string) error {
		for _, k := range keys {
			if err := rpcStore.Set(k, "test"); err != nil {
				return err
			}
		}
		return nil
	}

	benchmarks := []benchmark{
		{
			name: "set",
			op: func(key string, _ int) error {
				return rpcStore.Set(key, "test")
			},
		},
		{
			name: "set-large",
			op: func(key string, _ int) error {
				return rpcStore.Set(key, largeValue)
			},
		},
		{
			name:    "get",
			prepare: setAll,
			op: func(key string, _ int) error {
				_, _, err := rpcStore.Get(key)
				return err
			},
		},
		{
			name: "get-missing",
			op: func(key string, _ int) error {
				_, _, err := rpcStore.Get(key + "-missing")
				return err
			},
		},
		{
			name:    "expire",
			prepare: setAll,
			op: func(key string, counter int) error {
				return rpcStore.Expire(key, strconv.Itoa(counter))
			},
		},
		{
			name: "ttl",
			prepare: func(keys []string) error {
				if err := setAll(keys); err != nil {
					return err
				}
				for _, k := range keys {
					if err := rpcStore.Expire(k, "100"); err != nil {
						return err
					}
				}
				return nil
			},
			op: func(key string, _ int) error {
				_, _, err := rpcStore.TTL(key)
				return err
			},
		},
		{
			name:    "keys",
			prepare: setAll,
			op: func(_ string, _ int) error {
				_, _, err := rpcStore.Keys(perfKeyPrefix + "-keys-*")
				return err
			},
		},
		{
			name:    "mixed",
			prepare: setAll,
			op: func(key string, counter int) error {
				var err error
				switch counter % 4 {
				case 0: // set
					err = rpcStore.Set(key, "test")
				case 1: // get
					_, _, err = rpcStore.Get(key)
				case 2: // expire
					err = rpcStore.Expire(key, "100")
				case 3: // ttl
					_, _, err = rpcStore.TTL(key)
				}
				return err
			},
		},
	}

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	for _, bm := range benchmarks {
		result := testing.Benchmark(func(b *testing.B) {
			if shouldSkip(bm.name) {
				return
			}

			// prepare keys
			getKey, keys := getKeys(bm.name)
			if bm.prepare != nil {
				if err := bm.prepare(keys); err != nil {
					log.Printf("(%s) - error preparing keys: %v\n", bm.name, err)
					return
				}
			}

			b.SetParallelism(perfNumThreads)

			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					if err := bm.op(getKey(counter), counter); err != nil {
						log.Printf("(%s) - error performing operation: %v\n", bm.name, err)
					}
					counter++
				}
			})
		})

		results[bm.name] = result
		printResult(bm.name, result)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates the test keys of a benchmark and a function to pick one by counter
func getKeys(prefix string) (func(int) string, []string) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	return getKey, keys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Transport", "Endpoint", "TimeoutSec",
		"Threads", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			string(config.Transport.Type),
			config.Transport.Endpoint,
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
