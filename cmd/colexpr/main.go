// Command colexpr fetches a table from PostgreSQL and computes one derived
// column from an expression over its columns.
//
// Example:
//
//	colexpr -dsn "postgres://localhost/orders?sslmode=disable" \
//	        -query "SELECT price, tax, quantity FROM line_items" \
//	        -expr "(price + tax) * quantity"
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/lib/pq"

	"github.com/colexpr/colexpr/internal/config"
	"github.com/colexpr/colexpr/internal/exec"
	"github.com/colexpr/colexpr/internal/log"
	"github.com/colexpr/colexpr/internal/parser"
	"github.com/colexpr/colexpr/internal/table"
)

var version = "0.1.0"

func main() {
	var (
		dsn         = flag.String("dsn", "", "PostgreSQL connection string")
		query       = flag.String("query", "", "SQL query producing the input table")
		exprText    = flag.String("expr", "", "Expression over the query's columns")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("colexpr v%s\n", version)
		os.Exit(0)
	}
	if *dsn == "" || *query == "" || *exprText == "" {
		fmt.Fprintln(os.Stderr, "colexpr: -dsn, -query and -expr are required")
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	log.SetDefault(log.NewTextLogger(level))

	if err := run(*dsn, *query, *exprText); err != nil {
		log.Error("colexpr failed", "error", err)
		os.Exit(1)
	}
}

func run(dsn, query, exprText string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	tbl, colIndex, err := fetchTable(db, query)
	if err != nil {
		return err
	}
	log.Info("fetched input table", "rows", tbl.NumRows(), "columns", tbl.NumColumns())

	tree, err := parser.Parse(exprText, colIndex)
	if err != nil {
		return fmt.Errorf("parse expression: %w", err)
	}

	cfg := config.DefaultEvalConfig()
	cfg.LoadFromEnv()
	ec, err := exec.NewContext(cfg)
	if err != nil {
		return err
	}
	defer ec.Close()

	out, err := exec.ComputeColumn(ec, tbl, tree)
	if err != nil {
		return err
	}
	printColumn(out)
	return nil
}

// fetchTable runs the query and loads its numeric/boolean result columns
// into a columnar table, returning the name-to-index mapping for the
// expression parser.
func fetchTable(db *sql.DB, query string) (*table.Table, map[string]int, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, err
	}

	type colKind int
	const (
		kindInt colKind = iota
		kindFloat
		kindBool
	)
	kinds := make([]colKind, len(colTypes))
	for i, ct := range colTypes {
		switch strings.ToUpper(ct.DatabaseTypeName()) {
		case "INT2", "INT4", "INT8":
			kinds[i] = kindInt
		case "FLOAT4", "FLOAT8", "NUMERIC":
			kinds[i] = kindFloat
		case "BOOL":
			kinds[i] = kindBool
		default:
			return nil, nil, fmt.Errorf("column %q has unsupported type %s",
				ct.Name(), ct.DatabaseTypeName())
		}
	}

	ints := make([][]int64, len(colTypes))
	floats := make([][]float64, len(colTypes))
	bools := make([][]bool, len(colTypes))
	dest := make([]any, len(colTypes))

	for rows.Next() {
		for i, kind := range kinds {
			switch kind {
			case kindInt:
				dest[i] = new(int64)
			case kindFloat:
				dest[i] = new(float64)
			case kindBool:
				dest[i] = new(bool)
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		for i, kind := range kinds {
			switch kind {
			case kindInt:
				ints[i] = append(ints[i], *dest[i].(*int64))
			case kindFloat:
				floats[i] = append(floats[i], *dest[i].(*float64))
			case kindBool:
				bools[i] = append(bools[i], *dest[i].(*bool))
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	cols := make([]*table.Column, len(colTypes))
	colIndex := make(map[string]int, len(colTypes))
	for i, ct := range colTypes {
		switch kinds[i] {
		case kindInt:
			cols[i] = table.NewInt64Column(ints[i])
		case kindFloat:
			cols[i] = table.NewFloat64Column(floats[i])
		case kindBool:
			cols[i] = table.NewBoolColumn(bools[i])
		}
		colIndex[ct.Name()] = i
	}
	tbl, err := table.New(cols...)
	if err != nil {
		return nil, nil, err
	}
	return tbl, colIndex, nil
}

func printColumn(c *table.Column) {
	for row := 0; row < c.Len(); row++ {
		switch {
		case c.Int64s() != nil:
			fmt.Println(c.Int64s()[row])
		case c.Float64s() != nil:
			fmt.Println(c.Float64s()[row])
		case c.Bools() != nil:
			fmt.Println(c.Bools()[row])
		case c.Int32s() != nil:
			fmt.Println(c.Int32s()[row])
		case c.Float32s() != nil:
			fmt.Println(c.Float32s()[row])
		}
	}
}
