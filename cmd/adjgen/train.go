package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"adjgen/internal/dataset"
	"adjgen/internal/generator"
	"adjgen/internal/infer"
	"adjgen/internal/logger"
	"adjgen/internal/mlp"
	"adjgen/internal/vocab"
	"adjgen/pkg/wmf"
)

func trainCmd() *cli.Command {
	var (
		wordsPath string
		outPath   string
		name      string
		width     int64
		depth     int64
		epochs    int64
		batchSize int64
		valFrac   float64
		seed      int64
		skipSmoke bool
	)

	return &cli.Command{
		Name:  "train",
		Usage: "Train the character model on a word list and export a .wmf artifact",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "words",
				Aliases:     []string{"w"},
				Usage:       "path to newline-delimited word list",
				Value:       defaultWordsPath,
				Destination: &wordsPath,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "path for the exported .wmf artifact",
				Value:       defaultModelPath,
				Destination: &outPath,
			},
			&cli.StringFlag{
				Name:        "name",
				Usage:       "model name recorded in the artifact",
				Value:       "adjective_model",
				Destination: &name,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "hidden layer width",
				Value:       48,
				Destination: &width,
			},
			&cli.IntFlag{
				Name:        "depth",
				Usage:       "number of hidden layers",
				Value:       2,
				Destination: &depth,
			},
			&cli.IntFlag{
				Name:        "epochs",
				Aliases:     []string{"e"},
				Usage:       "training epochs",
				Value:       120,
				Destination: &epochs,
			},
			&cli.IntFlag{
				Name:        "batch-size",
				Aliases:     []string{"batch_size", "b"},
				Usage:       "mini-batch size",
				Value:       64,
				Destination: &batchSize,
			},
			&cli.FloatFlag{
				Name:        "val-frac",
				Usage:       "fraction of pairs held out for validation",
				Value:       0.1,
				Destination: &valFrac,
			},
			&cli.IntFlag{
				Name:        "seed",
				Usage:       "rng seed for init, shuffling, and the post-train smoke sample",
				Value:       42,
				Destination: &seed,
			},
			&cli.BoolFlag{
				Name:        "no-smoke",
				Usage:       "skip the post-train sample generations",
				Destination: &skipSmoke,
			},
		}, loggingFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := LoadConfig()
			applyTrainConfig(c, cfg, &wordsPath, &outPath, &width, &depth, &epochs, &batchSize, &valFrac, &seed)
			log := newLogger(cfg)

			words, err := dataset.Load(wordsPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load words: %v", err), 1)
			}

			v := vocab.New()
			pairs := dataset.Build(v, words, seed)
			log.Info("dataset ready",
				"words", len(words),
				"pairs", len(pairs),
				"vocab_size", vocab.Size,
				"input_dim", vocab.InputDim,
			)

			n, err := mlp.New(mlp.Config{
				InputDim:  vocab.InputDim,
				OutputDim: vocab.Size,
				Width:     int(width),
				Depth:     int(depth),
				Seed:      seed,
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: build network: %v", err), 1)
			}

			start := time.Now()
			res, err := n.Train(pairs, mlp.TrainConfig{
				Epochs:    int(epochs),
				BatchSize: int(batchSize),
				ValFrac:   valFrac,
				Seed:      seed,
			}, log)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: train: %v", err), 1)
			}
			log.Info("training complete",
				"elapsed", time.Since(start).Round(time.Millisecond).String(),
				"train_loss", res.TrainLoss,
				"val_loss", res.ValLoss,
				"val_acc", res.ValAccuracy,
			)

			if dir := filepath.Dir(outPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return cli.Exit(fmt.Sprintf("error: create output dir: %v", err), 1)
				}
			}
			info := &wmf.ModelInfo{
				Name:       name,
				BuildID:    uuid.NewString(),
				CreatedAt:  time.Now().UTC(),
				MaxWordLen: vocab.MaxWordLen,
				SeqLen:     vocab.SeqLen,
				Epochs:     uint32(epochs),
				BatchSize:  uint32(batchSize),
				TrainWords: uint32(len(words)),
				TrainPairs: uint32(res.TrainPairs),
				TrainLoss:  res.TrainLoss,
				ValLoss:    res.ValLoss,
			}
			if err := mlp.Export(n, outPath, info); err != nil {
				return cli.Exit(fmt.Sprintf("error: export: %v", err), 1)
			}
			log.Info("artifact written", "path", outPath, "build_id", info.BuildID)

			if skipSmoke {
				return nil
			}
			return smokeSample(outPath, seed, log)
		},
	}
}

// smokeSample reloads the freshly written artifact through the inference
// runtime and logs a few sampled words per temperature. Catches export bugs
// immediately instead of on the next gen run.
func smokeSample(path string, seed int64, log logger.Logger) error {
	rt, err := infer.Load(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: reload artifact: %v", err), 1)
	}

	v := vocab.New()
	for _, temp := range []float64{0.5, 0.8, 1.0, 1.3} {
		g, err := generator.New(v, rt, generator.Config{Temperature: temp, Seed: seed})
		if err != nil {
			return cli.Exit(fmt.Sprintf("error: sample: %v", err), 1)
		}
		words := make([]string, 0, 8)
		for tries := 0; len(words) < 8 && tries < 64; tries++ {
			w, err := g.Generate()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: sample: %v", err), 1)
			}
			if w == "" {
				continue
			}
			words = append(words, w)
		}
		log.Info("sample generations", "temp", temp, "words", words)
	}
	return nil
}
