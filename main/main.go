package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/gabyx/RustoFluid/pkg/fluid"
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}
	f, err := fluid.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	pal, err := newPalette(*paletteFlag)
	if err != nil {
		log.Fatal(err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	observers := []fluid.Observer{
		fluid.Progress(func(step, total int) {
			if step&(step-1) == 0 || step == total {
				log.Printf("step %d/%d", step, total)
			}
		}),
		fluid.ObserverFunc(func(s fluid.Snapshot) error {
			for _, w := range s.Warnings {
				log.Println(w)
			}
			return nil
		}),
	}

	var frames *frameWriter
	if *outFlag != "" {
		frames, err = newFrameWriter(*outFlag, *everyFlag, *scaleFlag, pal)
		if err != nil {
			log.Fatal(err)
		}
		observers = append(observers, frames)
	}
	var hist *history
	if *plotFlag != "" {
		hist = &history{}
		observers = append(observers, hist)
	}

	g, gctx := errgroup.WithContext(ctx)
	if *serveFlag != "" {
		h := newHub()
		observers = append(observers, h)
		g.Go(func() error { return serve(gctx, *serveFlag, h) })
	}

	log.Printf("simulating %dx%d cells, h=%g dt=%g, %d steps, boundaries %s/%s/%s/%s",
		cfg.NX, cfg.NY, cfg.H, cfg.Dt, cfg.Steps,
		cfg.Boundaries.Left, cfg.Boundaries.Right, cfg.Boundaries.Bottom, cfg.Boundaries.Top)

	var runErr error
	if *viewFlag {
		// The window must own the main goroutine.
		runErr = runViewer(NewViewer(gctx, f, observers, pal, *scaleFlag))
		cancel()
	} else {
		g.Go(func() error {
			err := f.Run(gctx, observers...)
			if err == nil && *serveFlag != "" {
				log.Printf("run complete, serving the last snapshot until interrupted")
			}
			return err
		})
	}
	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}

	var ie *fluid.InstabilityError
	switch {
	case errors.As(runErr, &ie):
		log.Printf("simulation diverged: %v", ie)
	case errors.Is(runErr, context.Canceled):
		log.Printf("interrupted after %d steps", f.Step())
	case runErr != nil:
		log.Fatal(runErr)
	default:
		log.Printf("completed %d steps: max divergence %.2e, total dye %.4g",
			f.Step(), f.MaxDivergence(), f.TotalDensity())
	}

	if frames != nil {
		if err := frames.Close(); err != nil {
			log.Fatal(err)
		}
		log.Printf("frames written to %s", *outFlag)
	}
	if hist != nil {
		if err := hist.save(*plotFlag); err != nil {
			log.Fatal(err)
		}
		log.Printf("history chart written to %s (%d pressure sweeps in total)", *plotFlag, hist.sweeps)
	}
	if ie != nil {
		os.Exit(1)
	}
}
