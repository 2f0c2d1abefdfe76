package ycsb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ValentinKolb/dTree/cmd/util"
	"github.com/ValentinKolb/dTree/lib/record"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	readCmd = &cobra.Command{
		Use:   "read [key]",
		Short: "Reads the record stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields []string
			if f := viper.GetString("fields"); f != "" {
				fields = strings.Split(f, ",")
			}
			r, err := db.Read(context.Background(), viper.GetString("table"), args[0], fields)
			if err != nil {
				return util.ExitOnError(fatal(), err)
			}
			for _, f := range r {
				fmt.Printf("%s=%s\n", f.Name, f.Value)
			}
			return nil
		},
	}
	insertCmd = &cobra.Command{
		Use:   "insert [key] [field=value]...",
		Short: "Stores a record under a key, replacing any previous record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseFields(args[1:])
			if err != nil {
				return err
			}
			if err := db.Insert(context.Background(), viper.GetString("table"), args[0], r); err != nil {
				return util.ExitOnError(fatal(), err)
			}
			fmt.Println("insert successfully")
			return nil
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [key] [field=value]...",
		Short: "Overwrites fields of a stored record, unknown fields are ignored",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseFields(args[1:])
			if err != nil {
				return err
			}
			if err := db.Update(context.Background(), viper.GetString("table"), args[0], r); err != nil {
				return util.ExitOnError(fatal(), err)
			}
			fmt.Println("update successfully")
			return nil
		},
	}
	deleteCmd = &cobra.Command{
		Use:   "delete [key]",
		Short: "Accepts a delete request, records are never removed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.Delete(context.Background(), viper.GetString("table"), args[0]); err != nil {
				return util.ExitOnError(fatal(), err)
			}
			fmt.Println("delete successfully (no-op)")
			return nil
		},
	}
	scanCmd = &cobra.Command{
		Use:   "scan [startKey] [count]",
		Short: "Scans records starting at a key (not implemented)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("count must be a number: %w", err)
			}
			records, err := db.Scan(context.Background(), viper.GetString("table"), args[0], count, nil)
			if err != nil {
				return util.ExitOnError(fatal(), err)
			}
			for _, r := range records {
				fmt.Println(record.Encode(r))
			}
			return nil
		},
	}
)

func init() {
	readCmd.Flags().String("fields", "", util.WrapString("Comma-separated list of fields to read (only full reads are supported)"))
}

// parseFields builds a record from field=value arguments.
// A repeated field keeps its first position and takes the last value.
func parseFields(args []string) (record.Record, error) {
	r := make(record.Record, 0, len(args))
	index := make(map[string]int, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field %q (expected field=value)", arg)
		}
		if i, exists := index[name]; exists {
			r[i].Value = value
			continue
		}
		index[name] = len(r)
		r = append(r, record.Field{Name: name, Value: value})
	}
	return r, nil
}
