package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	sm "github.com/setanarut/spritematte"
	"github.com/setanarut/spritematte/utils"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: spritesheet [-rows n] [-cols n] [-duration d] [-key color|auto] insheet out.webp|out.gif\n")
		fmt.Fprintf(os.Stderr, "Key out the background of a sprite sheet, slice it into a grid of\n")
		fmt.Fprintf(os.Stderr, "frames and save them as a transparent animation.\n")
		flag.PrintDefaults()
	}
	rows := flag.Int("rows", 3, "Number of grid rows.")
	cols := flag.Int("cols", 3, "Number of grid columns.")
	duration := flag.Duration("duration", sm.DefaultFrameDuration, "Display time of each frame.")
	loop := flag.Int("loop", 0, "Number of times the animation plays. 0 loops forever.")
	key := flag.String("key", "#ff00ff", "Background color, or auto to detect it from the image border.")
	keymethod := flag.String("keymethod", "border", "Detection method for -key auto: border, dominantcolor or kmeans.")
	tolerance := flag.Float64("t", 60, "Chroma key tolerance radius.")
	feather := flag.Float64("f", 15, "Chroma key feather width.")
	chain := flag.String("mode", "chroma", "Comma separated strategy chain: chroma, hsv.")
	sheet := flag.String("sheet", "", "Also save the keyed sheet to this PNG file.")
	verbose := flag.Bool("v", false, "Verbose output.")
	flag.Parse()
	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	if *verbose {
		sm.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	log.Printf("Opening %s\n", flag.Arg(0))
	src, err := utils.ReadImage(flag.Arg(0))
	if err != nil {
		log.Fatalf("Could not open file %s: %v\n", flag.Arg(0), err)
	}
	img := sm.FromImage(src)
	log.Printf("Image size: %dx%d, cell size: %dx%d\n", img.W, img.H, img.W/max(*cols, 1), img.H/max(*rows, 1))

	cfg := sm.SpriteSheetConfig()
	cfg.Tolerance = *tolerance
	cfg.FeatherWidth = *feather
	if *key == "auto" {
		m, err := utils.ParseKeyMethod(*keymethod)
		if err != nil {
			log.Fatalln(err)
		}
		cfg.KeyColor, err = utils.EstimateKeyColor(src, m)
		if err != nil {
			log.Fatalf("Could not detect key color: %v\n", err)
		}
		log.Printf("Detected key color %s\n", colorful.Color{
			R: float64(cfg.KeyColor.R) / 255,
			G: float64(cfg.KeyColor.G) / 255,
			B: float64(cfg.KeyColor.B) / 255,
		}.Hex())
	} else {
		kc, err := colorful.Hex(*key)
		if err != nil {
			log.Fatalf("Could not parse key color %s: %v\n", *key, err)
		}
		r8, g8, b8 := kc.RGB255()
		cfg.KeyColor = sm.Pixel{R: r8, G: g8, B: b8, A: 255}
	}

	modes, err := sm.ParseChain(*chain)
	if err != nil {
		log.Fatalln(err)
	}

	log.Print("Removing background")
	matte, report, err := sm.NewRemover(cfg, modes...).Remove(context.Background(), img)
	if err != nil {
		log.Fatalf("Could not remove background: %v\n", err)
	}
	log.Printf("Applied %v\n", report.Applied)

	if *sheet != "" {
		if err := utils.SaveMatte(matte, *sheet); err != nil {
			log.Fatalf("Could not save %s: %v\n", *sheet, err)
		}
	}

	cells, err := sm.Slice(matte, *rows, *cols)
	if err != nil {
		log.Fatalln(err)
	}
	seq, err := sm.Assemble(sm.UniformFrames(cells, *duration), *loop)
	if err != nil {
		log.Fatalln(err)
	}

	log.Printf("Saving %d frames to %s\n", len(seq.Frames), flag.Arg(1))
	if err := utils.SaveAnimation(seq, flag.Arg(1)); err != nil {
		log.Fatalf("Could not save animation: %v\n", err)
	}
}
