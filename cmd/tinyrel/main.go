package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/tuannm99/tinyrel"
	"github.com/tuannm99/tinyrel/internal"
	"github.com/tuannm99/tinyrel/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	rawURL := flag.String("url", "", "Connection URL (mem:<name>, disk:<path>); overrides the config")
	tableName := flag.String("table", "", "Dump the rows of this table")
	explain := flag.Bool("explain", false, "Print the plan used for -table")
	flag.Parse()

	if err := run(os.Stdout, *configPath, *rawURL, *tableName, *explain); err != nil {
		fmt.Fprintln(os.Stderr, "tinyrel:", err)
		os.Exit(1)
	}
}

func run(w io.Writer, configPath, rawURL, tableName string, explain bool) error {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger, cleanup, err := logging.Setup(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer cleanup()
	slog.SetDefault(logger)

	var db tinyrel.Database
	if rawURL != "" {
		db, err = tinyrel.Connect(rawURL)
	} else {
		db, err = tinyrel.ConnectConfig(cfg)
	}
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			slog.Warn("close database", "err", cerr)
		}
	}()

	if tableName != "" {
		return dumpTable(w, db, tableName, explain)
	}
	return listTables(w, db)
}

func listTables(w io.Writer, db tinyrel.Database) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "TABLE\tROWS\tCOLUMNS\n")
	for _, name := range db.Tables() {
		tb, ok := db.Table(name)
		if !ok {
			continue
		}
		var cols []string
		for _, c := range tb.Schema().Columns {
			def := c.Name + " " + string(c.Type)
			for _, a := range c.Attrs {
				def += " " + string(a)
			}
			cols = append(cols, def)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", name, tb.Len(), strings.Join(cols, ", "))
	}
	return tw.Flush()
}

func dumpTable(w io.Writer, db tinyrel.Database, name string, explain bool) error {
	q := tinyrel.SelectFrom(name, "*")
	if explain {
		if ex, ok := db.(interface {
			Explain(*tinyrel.Select) (string, error)
		}); ok {
			plan, err := ex.Explain(q)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "plan:", plan)
		}
	}

	cur, err := db.Exec(q)
	if err != nil {
		return err
	}
	defer cur.Close()

	tb, _ := db.Table(name)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tb.Schema().ColumnNames(), "\t"))
	for cur.Next() {
		vals := make([]string, len(cur.Row()))
		for i, v := range cur.Row() {
			if v == nil {
				vals[i] = "NULL"
			} else {
				vals[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(tw, strings.Join(vals, "\t"))
	}
	if err := cur.Err(); err != nil {
		return err
	}
	return tw.Flush()
}
