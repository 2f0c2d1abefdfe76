package ycsb

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/ValentinKolb/dTree/lib/tree/ltree"
	"github.com/ValentinKolb/dTree/lib/ycsb"
	gometrics "github.com/rcrowley/go-metrics"
)

func TestProcessPerfConfigSkip(t *testing.T) {
	tests := []struct {
		skip    string
		wantErr bool
	}{
		{skip: "", wantErr: false},
		{skip: "read,mixed", wantErr: false},
		{skip: "insert", wantErr: true},
		{skip: "read, insert", wantErr: true},
	}

	t.Cleanup(func() { _ = perfCmd.Flags().Set("skip", "") })
	for _, tt := range tests {
		t.Run(tt.skip, func(t *testing.T) {
			if err := perfCmd.Flags().Set("skip", tt.skip); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			err := processPerfConfig(perfCmd, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("processPerfConfig() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

// useLocalDB points the package client at an in memory tree for the duration of the test
func useLocalDB(t *testing.T) {
	t.Helper()
	local, err := ycsb.NewDB(func() (tree.ITree, error) {
		return ltree.NewLocalTree(), nil
	}, ycsb.DefaultOptions())
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	prev := db
	db = local
	t.Cleanup(func() {
		db = prev
		_ = local.Close()
	})
}

func testResults() []perfResult {
	results := make([]perfResult, 0, 2)
	for _, name := range []string{"insert", "read"} {
		r := perfResult{
			name:    name,
			timer:   gometrics.NewTimer(),
			errors:  gometrics.NewCounter(),
			elapsed: time.Second,
		}
		r.timer.Update(time.Millisecond)
		results = append(results, r)
	}
	return results
}

func TestWriteResultsToCSV(t *testing.T) {
	useLocalDB(t)

	path := filepath.Join(t.TempDir(), "results.csv")
	if err := writeResultsToCSV(path, testResults()); err != nil {
		t.Fatalf("writeResultsToCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d rows", len(rows))
	}
	if rows[0][0] != "Workload" || rows[1][0] != "insert" || rows[2][0] != "read" {
		t.Errorf("Unexpected first column: %q, %q, %q", rows[0][0], rows[1][0], rows[2][0])
	}
	if rows[1][1] != "1" {
		t.Errorf("Expected 1 op for insert, got %s", rows[1][1])
	}
}

func TestWriteResultsToCSVErrors(t *testing.T) {
	useLocalDB(t)

	tests := []struct {
		name string
		path string
	}{
		{name: "missing directory", path: filepath.Join(t.TempDir(), "missing", "results.csv")},
		{name: "device full", path: "/dev/full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.path == "/dev/full" {
				if _, err := os.Stat(tt.path); err != nil {
					t.Skip("/dev/full not available")
				}
			}
			if err := writeResultsToCSV(tt.path, testResults()); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
