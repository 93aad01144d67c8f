// Command kurve reconstructs treatment rows from CATO layout dumps and
// writes them as JSON, optionally into SQLite, and optionally as per-page
// geometry renderings.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/kurve"
	"github.com/tsawler/kurve/config"
	"github.com/tsawler/kurve/diag"
	"github.com/tsawler/kurve/document"
	"github.com/tsawler/kurve/model"
	"github.com/tsawler/kurve/render"
	"github.com/tsawler/kurve/store"
)

const (
	exitInvalidPath = 65
	exitNoPaths     = 66
)

func main() {
	app := &cli.App{
		Name:      "kurve",
		Usage:     "reconstruct treatment rows from CATO layout dumps",
		ArgsUsage: "paths...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output JSON file (default: timestamped file in the working directory)",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database to append rows to",
			},
			&cli.StringFlag{
				Name:  "render",
				Usage: "directory for per-page geometry PNGs",
			},
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"c"},
				Usage:   "YAML layout template overriding the built-in thresholds",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   4,
				Usage:   "documents processed in parallel",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "debug logging",
			},
		},
		Action: run,
	}

	// cli.Exit errors carry their own exit codes and are handled by Run.
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	obs := diag.NewSlog(logger)

	if c.NArg() == 0 {
		return cli.Exit("no valid paths given", exitNoPaths)
	}
	files, err := resolvePaths(c.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), exitInvalidPath)
	}
	logger.Info("processing files", "count", len(files))

	tpl := config.DefaultTemplate()
	if path := c.String("template"); path != "" {
		tpl, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading template: %w", err)
		}
	}

	var mu sync.Mutex
	var allRows []model.Row

	// One failed document must not sink the batch: structural errors are
	// logged per document and the rest continue.
	g := new(errgroup.Group)
	g.SetLimit(c.Int("jobs"))
	for _, file := range files {
		file := file
		g.Go(func() error {
			doc, warnings, err := kurve.Open(file).
				WithTemplate(tpl).
				WithObserver(obs).
				Document()
			if err != nil {
				logger.Error("document failed", "file", file, "error", err)
				return nil
			}
			for _, w := range warnings {
				logger.Warn("extraction warning", "file", file, "warning", w.String())
			}

			rows := document.New(obs).Rows(doc)

			if dir := c.String("render"); dir != "" {
				if err := renderPages(dir, doc); err != nil {
					logger.Error("rendering failed", "file", file, "error", err)
				}
			}

			mu.Lock()
			allRows = append(allRows, rows...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("extraction finished", "rows", len(allRows))

	if dbPath := c.String("db"); dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening row store: %w", err)
		}
		defer db.Close()
		if err := db.SaveRows(allRows); err != nil {
			return fmt.Errorf("storing rows: %w", err)
		}
		logger.Info("rows stored", "db", db.Path())
	}

	outPath := c.String("output")
	if outPath == "" {
		outPath = fmt.Sprintf("extract_%s.json", time.Now().Format("20060102-150405"))
	}
	if err := writeJSON(outPath, allRows); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	logger.Info("output written", "path", outPath)
	return nil
}

// resolvePaths expands the argument list into layout dump files. Wildcards
// are supported in filenames only; directories expand to the *.json files
// they contain directly.
func resolvePaths(args []string) ([]string, error) {
	var sources []string
	for _, arg := range args {
		dir, name := filepath.Split(arg)
		if strings.ContainsAny(dir, "*?") {
			return nil, fmt.Errorf("wildcards are only supported in filenames: %s", arg)
		}
		if strings.ContainsAny(name, "*?") {
			matches, err := filepath.Glob(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
			}
			sources = append(sources, matches...)
			continue
		}
		sources = append(sources, arg)
	}

	var files []string
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("invalid target path: %s", src)
		}
		if info.IsDir() {
			matches, err := filepath.Glob(filepath.Join(src, "*.json"))
			if err != nil {
				return nil, fmt.Errorf("listing %s: %w", src, err)
			}
			files = append(files, matches...)
			continue
		}
		if strings.EqualFold(filepath.Ext(src), ".json") {
			files = append(files, src)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no layout dumps found")
	}
	return files, nil
}

func renderPages(dir string, doc *model.Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	r := render.New(2)
	stem := strings.TrimSuffix(doc.Name, filepath.Ext(doc.Name))
	for _, page := range doc.Pages {
		path := filepath.Join(dir, fmt.Sprintf("%s_p%02d.png", stem, page.Index+1))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := r.WritePNG(f, page); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, rows []model.Row) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
