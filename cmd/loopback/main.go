// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command loopback runs a shmpipe FIFO chain end-to-end: a monotonic
// u32 producer feeds the first FIFO, any number of pipes forward
// records hop by hop (synchronously or via copy engines), and a
// consumer verifies the tail FIFO reproduces the exact sequence.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"code.hybscloud.com/shmpipe"
	"code.hybscloud.com/shmpipe/internal/fixture"
)

// cmdArgs holds the command line flags.
type cmdArgs struct {
	fifos       int
	fifoSize    int
	bdCount     int
	align       int
	targetBytes int
	engines     int
}

var args cmdArgs

var rootCmd = &cobra.Command{
	Use:   "loopback",
	Short: "Drive a shmpipe FIFO chain and verify the byte stream",
	RunE: func(_ *cobra.Command, _ []string) error {
		return run(args)
	},
}

func init() {
	rootCmd.Flags().IntVar(&args.fifos, "fifos", 1, "number of chained FIFO regions (1 = single-FIFO loopback)")
	rootCmd.Flags().IntVar(&args.fifoSize, "fifo-size", shmpipe.DefaultFIFOSize, "bytes per FIFO region")
	rootCmd.Flags().IntVar(&args.bdCount, "bd-count", shmpipe.DefaultBDCount, "descriptor ring length per FIFO")
	rootCmd.Flags().IntVar(&args.align, "align", shmpipe.DefaultAlign, "alignment quantum")
	rootCmd.Flags().IntVar(&args.targetBytes, "target-bytes", 1<<30, "total bytes to stream through the chain")
	rootCmd.Flags().IntVar(&args.engines, "engines", 0, "number of leading hops to forward via an async copy engine")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(a cmdArgs) error {
	config := zap.NewDevelopmentConfig()
	config.Development = false
	config.Level.SetLevel(zap.InfoLevel)

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	h := fixture.NewHarness(a.fifos, fixture.ChainOptions{
		FIFOSize:    a.fifoSize,
		BDCount:     a.bdCount,
		Align:       a.align,
		TargetBytes: a.targetBytes,
		Engines:     a.engines,
	})

	log.Infow("starting chain",
		"fifos", a.fifos, "fifo_size", a.fifoSize, "target_bytes", a.targetBytes, "engines", a.engines)

	start := time.Now()
	h.Run()
	elapsed := time.Since(start)

	if err := h.Consumer().Err(); err != nil {
		log.Errorw("stream mismatch", "error", err)
		return err
	}

	log.Infow("chain done",
		"produced_bytes", h.Producer().ProducedBytes(),
		"consumed_bytes", h.Consumer().ConsumedBytes(),
		"elapsed", elapsed,
		"throughput_mb_s", float64(h.Consumer().ConsumedBytes())/elapsed.Seconds()/(1<<20))
	return nil
}
