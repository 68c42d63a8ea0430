package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"pilemap/adapters/excel"
	"pilemap/adapters/memory"
	"pilemap/app"
	"pilemap/domain/pile"
	"pilemap/domain/sheet"
	"pilemap/internal"
	"pilemap/ports"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pilemap-cli",
		Short: "Pilemap CLI for extracting pile survey data from spreadsheets",
	}

	rootCmd.AddCommand(
		newExtractCmd(),
		newLettersCmd(),
		newTrackersCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newExtractCmd() *cobra.Command {
	var frame, poleL, x, y, z string
	var manual, singleSheet, summary bool
	var offset, blankLimit int
	var targetSheet string

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract pile rows from a spreadsheet",
		Long: `Extract pile survey rows from a workbook or delimited text file.

Auto mode detects the header row and starts extraction below it. Manual mode
skips detection and starts at --offset (default 0).

Example: pilemap-cli extract survey.xlsx --frame A --pole B --x C --y D --z E`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			cache := memory.NewCache()
			if manual {
				// Seed the cache so the manual path picks up the offset.
				if err := cache.Set(cmd.Context(), ports.CacheKeyDataStartOffset, strconv.Itoa(offset)); err != nil {
					return err
				}
			}

			opts := app.DefaultExtractOptions()
			if targetSheet != "" {
				opts.TargetSheet = targetSheet
			}
			if blankLimit > 0 {
				opts.BlankStreakLimit = blankLimit
			}

			logger := internal.NewDefaultLogger()
			service := app.NewMappingService(excel.NewLoader(), cache, opts, logger)

			req := app.ExtractRequest{
				Content:  content,
				Filename: filepath.Base(args[0]),
				Letters: sheet.ColumnLetters{
					Frame: frame, Pole: poleL, X: x, Y: y, Z: z,
				},
				SingleSheet: singleSheet,
			}

			var result *sheet.ExtractionResult
			if manual {
				result, err = service.RunManualRemap(cmd.Context(), req)
			} else {
				result, err = service.RunAutoDetect(cmd.Context(), req)
			}
			if err != nil {
				return err
			}

			return printExtraction(result, summary)
		},
	}

	cmd.Flags().StringVar(&frame, "frame", "A", "Column letter for the tracker/frame number")
	cmd.Flags().StringVar(&poleL, "pole", "B", "Column letter for the pole number")
	cmd.Flags().StringVar(&x, "x", "C", "Column letter for easting")
	cmd.Flags().StringVar(&y, "y", "D", "Column letter for northing")
	cmd.Flags().StringVar(&z, "z", "E", "Column letter for terrain elevation")
	cmd.Flags().BoolVar(&manual, "manual", false, "Skip header detection and extract at --offset")
	cmd.Flags().IntVar(&offset, "offset", 0, "Data start row for manual mode (0-based)")
	cmd.Flags().BoolVar(&singleSheet, "single-sheet", false, "Require exactly one sheet instead of resolving the target name")
	cmd.Flags().StringVar(&targetSheet, "target-sheet", "", "Override the sheet name to resolve")
	cmd.Flags().IntVar(&blankLimit, "blank-limit", 0, "Override the consecutive-blank-row stop threshold")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print per-axis statistics instead of rows")

	return cmd
}

func newLettersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "letters [letter...]",
		Short: "Sanitize column letters and show their 0-based indices",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range args {
				clean := sheet.SanitizeLetter(raw)
				idx, err := sheet.LetterIndex(raw)
				if err != nil {
					fmt.Printf("%-8s -> %-4s (invalid: %v)\n", raw, clean, err)
					continue
				}
				fmt.Printf("%-8s -> %-4s index %d\n", raw, clean, idx)
			}
			return nil
		},
	}
}

func newTrackersCmd() *cobra.Command {
	var frame, poleL, x, y, z string

	cmd := &cobra.Command{
		Use:   "trackers [file]",
		Short: "Extract and group rows into grading-ready trackers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			service := app.NewMappingService(excel.NewLoader(), memory.NewCache(), app.DefaultExtractOptions(), internal.NewDefaultLogger())
			result, err := service.RunAutoDetect(context.Background(), app.ExtractRequest{
				Content:  content,
				Filename: filepath.Base(args[0]),
				Letters:  sheet.ColumnLetters{Frame: frame, Pole: poleL, X: x, Y: y, Z: z},
			})
			if err != nil {
				return err
			}

			trackers := pile.BuildTrackers(result)
			out, err := json.MarshalIndent(trackers, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			fmt.Fprintf(os.Stderr, "%d trackers, %d piles\n", len(trackers), len(pile.AllPiles(trackers)))
			return nil
		},
	}

	cmd.Flags().StringVar(&frame, "frame", "A", "Column letter for the tracker/frame number")
	cmd.Flags().StringVar(&poleL, "pole", "B", "Column letter for the pole number")
	cmd.Flags().StringVar(&x, "x", "C", "Column letter for easting")
	cmd.Flags().StringVar(&y, "y", "D", "Column letter for northing")
	cmd.Flags().StringVar(&z, "z", "E", "Column letter for terrain elevation")

	return cmd
}

func printExtraction(result *sheet.ExtractionResult, summarize bool) error {
	fmt.Printf("sheet: %s\n", result.SheetName)
	if result.IsFallback {
		fmt.Println("warning: no header row recognized, extraction started at row 1")
	}
	fmt.Printf("rows: %d\n", result.RowCount())

	if summarize {
		out, err := json.MarshalIndent(app.Summarize(result), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for i := 0; i < result.RowCount(); i++ {
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
			result.Frame[i].String(),
			result.Pole[i].String(),
			result.X[i].String(),
			result.Y[i].String(),
			result.Z[i].String(),
		)
	}
	return nil
}
