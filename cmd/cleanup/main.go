package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"

	sm "github.com/setanarut/spritematte"
	"github.com/setanarut/spritematte/utils"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cleanup [-aggressive] [-preview] [-mode chain] [-j n] [-o outdir] dir|file\n")
		fmt.Fprintf(os.Stderr, "Remove green screen, blue screen, near black and near white backgrounds\n")
		fmt.Fprintf(os.Stderr, "from generated images, making them transparent PNGs.\n")
		flag.PrintDefaults()
	}
	aggressive := flag.Bool("aggressive", false, "Blur the alpha channel to smooth edges.")
	preview := flag.Bool("preview", false, "Write name_preview.png files instead of modifying originals.")
	chain := flag.String("mode", "hsv,chroma", "Comma separated strategy chain: hsv, chroma.")
	key := flag.String("key", "#00ff00", "Key color for the chroma strategy.")
	tolerance := flag.Float64("t", 40, "Chroma key tolerance radius.")
	feather := flag.Float64("f", 0, "Chroma key feather width.")
	workers := flag.Int("j", 0, "Number of images processed at once. 0 uses every CPU.")
	outdir := flag.String("o", "", "Write outputs to this directory instead of overwriting inputs.")
	recursive := flag.Bool("r", true, "Process subdirectories.")
	overwrite := flag.Bool("overwrite", false, "Reprocess images whose output already exists.")
	verbose := flag.Bool("v", false, "Verbose output.")
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if *verbose {
		sm.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	modes, err := sm.ParseChain(*chain)
	if err != nil {
		log.Fatalln(err)
	}
	kc, err := colorful.Hex(*key)
	if err != nil {
		log.Fatalf("Could not parse key color %s: %v\n", *key, err)
	}
	r8, g8, b8 := kc.RGB255()

	cfg := sm.DefaultConfig()
	if *aggressive {
		cfg.EdgeBlurRadius = 1
	}
	cfg.KeyColor = sm.Pixel{R: r8, G: g8, B: b8, A: 255}
	cfg.Tolerance = *tolerance
	cfg.FeatherWidth = *feather
	remover := sm.NewRemover(cfg, modes...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	target := flag.Arg(0)
	fi, err := os.Stat(target)
	if err != nil {
		log.Fatalf("Could not open %s: %v\n", target, err)
	}

	if !fi.IsDir() {
		opts := utils.BatchOptions{Preview: *preview, OutDir: *outdir}
		out := opts.OutPath(filepath.Dir(target), target)
		res, err := utils.ProcessFile(ctx, remover, target, out)
		if err != nil {
			log.Fatalf("Error processing %s: %v\n", target, err)
		}
		log.Printf("Saved %s (%v, %.1f%% transparent)\n", res.Out, res.Report.Applied, res.Transparent*100)
		return
	}

	var logger *log.Logger
	if *verbose {
		logger = log.Default()
	}
	sum, err := utils.ProcessDir(ctx, target, remover, utils.BatchOptions{
		Workers:   *workers,
		Recursive: *recursive,
		Preview:   *preview,
		OutDir:    *outdir,
		Overwrite: *overwrite,
		Logger:    logger,
	})
	for _, e := range sum.Errors {
		log.Println(e)
	}
	log.Printf("%v; mean transparency %.1f%%\n", sum, sum.MeanTransparent*100)
	if err != nil {
		log.Fatalln(err)
	}
	if sum.Failed > 0 {
		os.Exit(1)
	}
}
