package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mpress/catalog"
	"mpress/state"
)

func historyRun(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("history")

	if !env.Cfg.Catalog.Enable {
		log.Warn("Export catalog is disabled in configuration, nothing to show")
		return nil
	}

	cat, err := catalog.Open(env.Cfg.Catalog.Path, log)
	if err != nil {
		return fmt.Errorf("unable to open export catalog: %w", err)
	}
	defer cat.Close()

	entries, err := cat.List(int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("unable to read export catalog: %w", err)
	}
	if len(entries) == 0 {
		log.Info("Export catalog is empty", zap.String("path", env.Cfg.Catalog.Path))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tPROJECT\tFORMAT\tSOURCE\tARTIFACTS")
	for _, e := range entries {
		artifacts := ""
		if e.IDMLPath != "" {
			artifacts = e.IDMLPath
		}
		if e.PDFPath != "" {
			if artifacts != "" {
				artifacts += ", "
			}
			artifacts += e.PDFPath
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Project, e.Format, e.Source, artifacts)
	}
	return w.Flush()
}
