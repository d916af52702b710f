package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/noiseextract/pkg/audio"
	"github.com/xaionaro-go/noiseextract/pkg/batch"
	"github.com/xaionaro-go/noiseextract/pkg/noiseextractor/implementations/subtraction"
	"github.com/xaionaro-go/noiseextract/pkg/progress"
	"github.com/xaionaro-go/noiseextract/pkg/progress/implementations/bar"
	"github.com/xaionaro-go/noiseextract/pkg/progress/implementations/loglines"
	"github.com/xaionaro-go/noiseextract/pkg/syncer"
	"github.com/xaionaro-go/noiseextract/pkg/syncer/implementations/gccphat"
	"github.com/xaionaro-go/observability"
	"golang.org/x/term"
)

func main() {
	loggerLevel := logger.LevelInfo
	pflag.Var(&loggerLevel, "log-level", "Log level")
	outputFormat := audio.PCMFormatS16LE
	pflag.Var(&outputFormat, "output-format", "PCM format of the output files: u8, s16le, s24le, s32le")
	extension := pflag.String("extension", batch.DefaultExtension, "only files with this (case-sensitive) extension are paired")
	checkAlignment := pflag.Bool("check-alignment", false, "warn about pairs whose recordings are not sample-aligned (they are never corrected)")
	alignmentTolerance := pflag.Float64("alignment-tolerance", 1, "offset in samples tolerated by --check-alignment")
	alignmentMinConfidence := pflag.Float64("alignment-min-confidence", 0.3, "minimal confidence of an offset estimate to be reported")
	progressMode := pflag.String("progress", "auto", "progress reporting: auto, bar, log, none")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Extract noise from paired clean and noisy WAV files.\n\n")
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <clean_dir> <noisy_dir> <output_dir>\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 3 {
		pflag.Usage()
		panic(fmt.Errorf("expected exactly three arguments: <clean_dir> <noisy_dir> <output_dir>"))
	}
	cleanDir, noisyDir, outputDir := pflag.Arg(0), pflag.Arg(1), pflag.Arg(2)
	if outputFormat.IsFloat() {
		panic(fmt.Errorf("output format %v is not supported, only integer PCM formats are", outputFormat))
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func() { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	cfg := subtraction.DefaultConfig()
	cfg.OutputFormat = outputFormat
	cfg.AlignmentTolerance = *alignmentTolerance
	cfg.AlignmentMinConfidence = *alignmentMinConfidence
	var alignmentChecker syncer.Syncer
	if *checkAlignment {
		alignmentChecker = gccphat.NewSyncer()
	}
	extractor := subtraction.NewExtractor(cfg, alignmentChecker)

	driver := batch.NewDriver(extractor, newProgress(*progressMode))
	driver.Extension = *extension

	report, err := driver.Run(ctx, cleanDir, noisyDir, outputDir)
	assertNoError(err)

	if report.Total() == 0 {
		return
	}
	printSummary(report)
}

func newProgress(mode string) progress.Progress {
	switch mode {
	case "auto":
		if term.IsTerminal(int(os.Stderr.Fd())) {
			return bar.New(os.Stderr, "Extracting noise")
		}
		return loglines.New()
	case "bar":
		return bar.New(os.Stderr, "Extracting noise")
	case "log":
		return loglines.New()
	case "none":
		return progress.Dummy{}
	default:
		panic(fmt.Errorf("unknown progress mode '%s'", mode))
	}
}

func printSummary(report *batch.Report) {
	color.New(color.FgGreen).Printf("%d of %d pairs extracted\n", report.Succeeded(), report.Total())
	if report.Failed() == 0 {
		return
	}
	failed := color.New(color.FgRed)
	failed.Printf("%d failed:\n", report.Failed())
	for _, result := range report.Results {
		if result.Err != nil {
			failed.Printf("  Failed on %s: %v\n", result.Name, result.Err)
		}
	}
}

func assertNoError(err error) {
	if err != nil {
		panic(err)
	}
}
