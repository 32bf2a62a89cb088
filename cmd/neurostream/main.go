// Command neurostream runs the neural compression pipeline over a .mem
// sample capture and reports the resulting statistics.
//
// Usage:
//
//	neurostream [flags] capture.mem
//
// Examples:
//
//	neurostream eeg_data_Fc5.mem
//	neurostream -threshold 2.5 -bands eeg_data_Fc5.mem
//	neurostream -o packets.nspk -codec zstd eeg_data_Fc5.mem
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-neurostream/analysis"
	"github.com/cwbudde/algo-neurostream/compress"
	"github.com/cwbudde/algo-neurostream/fixed"
	"github.com/cwbudde/algo-neurostream/memfile"
	"github.com/cwbudde/algo-neurostream/pipeline"
	"github.com/cwbudde/algo-neurostream/record"
	"github.com/cwbudde/algo-neurostream/stream"
)

func main() {
	threshold := flag.Float64("threshold", 5.0, "spike threshold in signal units")
	rate := flag.Float64("rate", 160, "sample rate in Hz (for -bands)")
	bands := flag.Bool("bands", false, "print EEG band power of the filtered stream")
	out := flag.String("o", "", "write the packet log to this file")
	codecName := flag.String("codec", "none", "packet log codec: none, zstd, lz4")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: neurostream [flags] capture.mem\n\n")
		fmt.Fprintf(os.Stderr, "Runs the filter/detect/compress pipeline over a Q16.16 hex capture.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *threshold, *rate, *bands, *out, *codecName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, threshold, rate float64, bands bool, out, codecName string) error {
	codec, err := record.ParseCodec(codecName)
	if err != nil {
		return err
	}

	samples, err := memfile.ReadFile(path)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("%s: no samples", path)
	}

	p, err := pipeline.New(pipeline.WithThreshold(fixed.FromFloat(threshold)))
	if err != nil {
		return err
	}
	packets := p.Process(samples)
	printSummary(path, len(samples), p.Stats(), p.SpikeCount(), packets)

	if bands {
		filtered := fixed.Floats(compress.Reconstruct(packets))
		bp, err := analysis.Bands(filtered, rate)
		if err != nil {
			return err
		}
		printBands(bp)
	}

	if out != "" {
		if err := record.WriteFile(out, packets, codec); err != nil {
			return err
		}
		fmt.Printf("\npacket log written to %s (%s)\n", out, codec)
	}
	return nil
}

func printSummary(path string, samples int, st pipeline.Stats, live uint64, packets []stream.Packet) {
	var counts [4]int
	for _, pkt := range packets {
		counts[pkt.Tag]++
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "capture\t%s\n", path)
	fmt.Fprintf(w, "samples\t%d\n", samples)
	fmt.Fprintf(w, "packets\t%d\n", len(packets))
	fmt.Fprintf(w, "spikes\t%d (live %d)\n", st.Spikes, live)
	fmt.Fprintf(w, "ratio\t%d%%\n", st.Ratio)
	fmt.Fprintf(w, "overflow\t%v\n", st.Overflow)
	for _, tag := range []stream.Tag{stream.TagLiteral, stream.TagDelta, stream.TagSpike, stream.TagRun} {
		fmt.Fprintf(w, "  %s\t%d\n", tag, counts[tag])
	}
	w.Flush()
}

func printBands(bp analysis.BandPower) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "\nband\tpower\tshare\n")
	rows := []struct {
		name  string
		power float64
	}{
		{"delta (1-4 Hz)", bp.Delta},
		{"theta (4-8 Hz)", bp.Theta},
		{"alpha (8-13 Hz)", bp.Alpha},
		{"beta (13-30 Hz)", bp.Beta},
	}
	for _, r := range rows {
		share := 0.0
		if bp.Total > 0 {
			share = r.power / bp.Total * 100
		}
		fmt.Fprintf(w, "%s\t%.4g\t%.1f%%\n", r.name, r.power, share)
	}
	w.Flush()
}
