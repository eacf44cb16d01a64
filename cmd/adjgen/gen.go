package main

import (
	"context"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"adjgen/internal/generator"
	"adjgen/internal/infer"
	"adjgen/internal/vocab"
)

func genCmd() *cli.Command {
	var (
		modelPath  string
		temp       float64
		count      int64
		seed       int64
		keepEmpty  bool
		jsonOutput bool
	)

	return &cli.Command{
		Name:  "gen",
		Usage: "Sample words from a trained .wmf artifact",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "model",
				Aliases:     []string{"m"},
				Usage:       "path to .wmf artifact",
				Value:       defaultModelPath,
				Destination: &modelPath,
			},
			&cli.FloatFlag{
				Name:        "temp",
				Aliases:     []string{"temperature", "t"},
				Usage:       "sampling temperature (below 1 sharpens, above 1 flattens)",
				Value:       1.0,
				Destination: &temp,
			},
			&cli.IntFlag{
				Name:        "count",
				Aliases:     []string{"n"},
				Usage:       "number of words to sample",
				Value:       30,
				Destination: &count,
			},
			&cli.IntFlag{
				Name:        "seed",
				Usage:       "rng seed (0 = time-based)",
				Destination: &seed,
			},
			&cli.BoolFlag{
				Name:        "keep-empty",
				Usage:       "count empty samples (end drawn immediately) toward --count",
				Destination: &keepEmpty,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit a JSON document instead of one word per line",
				Destination: &jsonOutput,
			},
		}, loggingFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := LoadConfig()
			applyGenConfig(c, cfg, &modelPath, &temp, &count, &seed)
			log := newLogger(cfg)

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			if count <= 0 {
				return cli.Exit("error: --count must be positive", 1)
			}

			rt, err := infer.Load(modelPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load artifact: %v", err), 1)
			}
			log.Debug("artifact loaded",
				"path", modelPath,
				"name", rt.Info().Name,
				"build_id", rt.Info().BuildID,
				"width", rt.Info().Width,
				"depth", rt.Info().Depth,
			)

			g, err := generator.New(vocab.New(), rt, generator.Config{
				Temperature: temp,
				Seed:        seed,
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			// Empty samples happen when the end symbol is drawn on the first
			// step. By default they are retried so --count words come out;
			// the attempt cap keeps a degenerate model from spinning forever.
			maxAttempts := count * 16
			words := make([]string, 0, count)
			var attempts int64
			for int64(len(words)) < count && attempts < maxAttempts {
				attempts++
				w, err := g.Generate()
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: generate: %v", err), 1)
				}
				if w == "" && !keepEmpty {
					continue
				}
				words = append(words, w)
			}
			if int64(len(words)) < count {
				log.Warn("sampling stalled before reaching count",
					"got", len(words), "want", count, "attempts", attempts)
			}

			if jsonOutput {
				out := struct {
					Model       string   `json:"model"`
					BuildID     string   `json:"build_id"`
					Temperature float64  `json:"temperature"`
					Seed        int64    `json:"seed"`
					Words       []string `json:"words"`
				}{
					Model:       rt.Info().Name,
					BuildID:     rt.Info().BuildID,
					Temperature: temp,
					Seed:        seed,
					Words:       words,
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			for _, w := range words {
				fmt.Println(w)
			}
			return nil
		},
	}
}
