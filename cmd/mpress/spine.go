package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mpress/common"
	"mpress/state"
	"mpress/theme"
)

func spineRun(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("spine")

	arg := cmd.Args().Get(0)
	if len(arg) == 0 {
		return errors.New("no page count has been specified")
	}
	pages, err := strconv.Atoi(arg)
	if err != nil || pages <= 0 {
		return fmt.Errorf("page count must be a positive integer, got %q", arg)
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Mailformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	stockName := cmd.String("stock")
	if stockName == "" {
		stockName = env.Cfg.Document.PaperStock
	}
	stock, err := common.ParsePaperStock(stockName)
	if err != nil {
		log.Warn("Unknown paper stock requested, switching to white", zap.Error(err))
		stock = common.PaperStockWhite
	}

	inches := theme.SpineWidth(pages, stock)
	mm := theme.SpineWidthMM(pages, stock)

	log.Debug("Spine width calculated", zap.Int("pages", pages), zap.Stringer("stock", stock))

	fmt.Printf("pages: %d\nstock: %s\nspine: %.4f in (%.2f mm)\n", pages, stock, inches, mm)
	return nil
}
