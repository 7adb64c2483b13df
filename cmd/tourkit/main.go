// Command tourkit 从评分数据集为用户推荐景点。
//
//	tourkit -data Final_tourism.csv -user 70456 -strategy collaborative -n 5
//	tourkit -config tourkit.yaml -user 70456 -strategy content -filter 'label.city != "1"'
//	tourkit -data Final_tourism.csv -users
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rushteam/tourkit/config"
	"github.com/rushteam/tourkit/logging"
	"github.com/rushteam/tourkit/recommend"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tourkit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath   = fs.String("config", "", "YAML config file")
		dataPath  = fs.String("data", "", "ratings CSV (overrides dataset.path)")
		userID    = fs.String("user", "", "user id to recommend for")
		strategy  = fs.String("strategy", "collaborative", "collaborative | content")
		topN      = fs.Int("n", 5, "number of recommendations")
		filterExp = fs.String("filter", "", `CEL filter expression, e.g. "item.score > 3.0"`)
		listUsers = fs.Bool("users", false, "list user ids and exit")
		asJSON    = fs.Bool("json", false, "print the result as JSON")
		logLevel  = fs.String("log-level", "", "trace | debug | info | warn | error")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, "tourkit:", err)
		return 1
	}
	if *dataPath != "" {
		cfg.Dataset.Path = *dataPath
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	cfg.Log.Output = stderr
	logger := logging.Init(cfg.Log)

	svc, err := recommend.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(stderr, "tourkit:", err)
		return 1
	}
	defer svc.Close()

	if *listUsers {
		for _, u := range svc.Users() {
			fmt.Fprintln(stdout, u)
		}
		return 0
	}
	if *userID == "" {
		fmt.Fprintln(stderr, "tourkit: -user is required")
		fs.Usage()
		return 2
	}

	res, err := svc.Recommend(ctx, recommend.Request{
		UserID:   *userID,
		Strategy: *strategy,
		TopN:     *topN,
		Filter:   *filterExp,
	})
	if err != nil {
		fmt.Fprintln(stderr, "tourkit:", err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintln(stderr, "tourkit:", err)
			return 1
		}
		return 0
	}
	printResult(stdout, res)
	return 0
}

func printResult(w io.Writer, res *recommend.Result) {
	if res.Empty() {
		fmt.Fprintln(w, res.Message())
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tATTRACTION\tSCORE\tTYPE\tCITY\tCOUNTRY")
	for _, it := range res.Items {
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%s\t%s\t%s\n",
			it.Rank, it.AttractionID, it.Score,
			orDash(it.Labels["attraction_type"]), orDash(it.Labels["city"]), orDash(it.Labels["country"]))
	}
	tw.Flush()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
