package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"adjgen/pkg/wmf"
)

func inspectCmd() *cli.Command {
	var (
		modelPath    string
		showSections bool
		showLayers   bool
		jsonOutput   bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Inspect the contents of a .wmf model artifact",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "model",
				Aliases:     []string{"m"},
				Usage:       "path to .wmf artifact",
				Value:       defaultModelPath,
				Destination: &modelPath,
			},
			&cli.BoolFlag{
				Name:        "sections",
				Usage:       "show the section directory",
				Destination: &showSections,
			},
			&cli.BoolFlag{
				Name:        "layers",
				Usage:       "show the layer index",
				Destination: &showLayers,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit the full inspection as JSON",
				Destination: &jsonOutput,
			},
		}, loggingFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			f, err := wmf.Open(modelPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open artifact: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			var info *wmf.ModelInfo
			if sec := f.Section(wmf.SectionModelInfo); sec != nil {
				info, err = wmf.ParseModelInfo(f.SectionData(sec))
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: model info: %v", err), 1)
				}
			}

			var layers []wmf.LayerEntry
			if sec := f.Section(wmf.SectionLayerIndex); sec != nil {
				var weightsSize uint64
				if ws := f.Section(wmf.SectionWeights); ws != nil {
					weightsSize = ws.Size
				}
				layers, err = wmf.ParseLayerIndex(f.SectionData(sec), weightsSize)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: layer index: %v", err), 1)
				}
			}

			if jsonOutput {
				out := struct {
					Path     string           `json:"path"`
					Header   *wmf.Header      `json:"header"`
					Sections []wmf.Section    `json:"sections"`
					Model    *wmf.ModelInfo   `json:"model,omitempty"`
					Layers   []wmf.LayerEntry `json:"layers,omitempty"`
				}{
					Path:     modelPath,
					Header:   f.Header,
					Sections: f.Sections,
					Model:    info,
					Layers:   layers,
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			fmt.Printf("file:       %s\n", modelPath)
			fmt.Printf("format:     WMF v%d.%d\n", f.Header.Major, f.Header.Minor)
			fmt.Printf("size:       %d bytes, %d sections\n", f.Header.FileSize, f.Header.SectionCount)
			if f.Header.Flags&wmf.FlagWeightsAligned64 != 0 {
				fmt.Printf("flags:      weights 64-byte aligned\n")
			}

			if info != nil {
				fmt.Printf("\nmodel:      %s\n", info.Name)
				fmt.Printf("build id:   %s\n", info.BuildID)
				if !info.CreatedAt.IsZero() {
					fmt.Printf("created:    %s\n", info.CreatedAt.Format("2006-01-02 15:04:05 MST"))
				}
				fmt.Printf("shape:      in=%d out=%d width=%d depth=%d\n",
					info.InputDim, info.VocabSize, info.Width, info.Depth)
				fmt.Printf("limits:     max_word_len=%d seq_len=%d\n", info.MaxWordLen, info.SeqLen)
				fmt.Printf("training:   epochs=%d batch=%d words=%d pairs=%d\n",
					info.Epochs, info.BatchSize, info.TrainWords, info.TrainPairs)
				if info.TrainLoss > 0 || info.ValLoss > 0 {
					fmt.Printf("loss:       train=%.4f val=%.4f\n", info.TrainLoss, info.ValLoss)
				}
			}

			if showSections {
				fmt.Printf("\nsections:\n")
				fmt.Printf("  %-12s %-8s %-12s %-12s\n", "TYPE", "VER", "OFFSET", "SIZE")
				for _, s := range f.Sections {
					fmt.Printf("  %-12s %-8d %-12d %-12d\n",
						wmf.SectionType(s.Type), s.Version, s.Offset, s.Size)
				}
			}

			if showLayers && len(layers) > 0 {
				fmt.Printf("\nlayers:\n")
				fmt.Printf("  %-4s %-8s %-8s %-10s %-12s %-12s\n", "#", "IN", "OUT", "ACT", "WEIGHTS", "BIAS")
				for i, l := range layers {
					fmt.Printf("  %-4d %-8d %-8d %-10s %-12d %-12d\n",
						i, l.InDim, l.OutDim, l.Activation, l.WeightSize, l.BiasSize)
				}
			}
			return nil
		},
	}
}
