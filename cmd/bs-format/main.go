package main

// bs-format normalizes aligned bisulfite-sequencing reads into a
// uniform, T-rich, conversion-tagged, mate-merged representation.
//
// Usage: bs-format -f abismal input.bam output.bam

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/grail-oss/bsformat/pipeline"
	"github.com/grail-oss/bsformat/standardize"
	"github.com/grail-oss/bsformat/suffix"
)

const version = "1.0.0"

var (
	threadsFlag    = flag.Int("t", 1, "Thread count for the external BAM codec")
	binaryFlag     = flag.Bool("B", false, "Emit a binary (BAM) container; else SAM text")
	stdoutFlag     = flag.Bool("stdout", false, "Write output to standard output")
	formatFlag     = flag.String("f", "", "Input aligner: abismal, walt, bsmap, or bismark")
	suffixLenFlag  = flag.Int("s", -1, "Read-name suffix length; disables the learner when set")
	singleEndFlag  = flag.Bool("single-end", false, "Skip mate pairing entirely")
	maxFragLenFlag = flag.Int("L", 10000, "Maximum merged fragment length")
	sampleSizeFlag = flag.Int("c", 1000000, "Sample size for the suffix learner")
	forceFlag      = flag.Bool("F", false, "Force processing of mixed single/paired input")
	verboseFlag    = flag.Bool("v", false, "Verbose diagnostics to standard error")
)

// ErrIncompatibleOptions is returned when --single-end is combined
// with an explicit -s: a suffix length is meaningless once pairing is
// disabled.
var ErrIncompatibleOptions = fmt.Errorf("bs-format: --single-end is incompatible with -s")

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	flag.Usage = func() {
		os.Stderr.WriteString(`Usage: bs-format -f FORMAT [flags] input output

Normalizes aligned bisulfite-sequencing reads: every surviving record is
T-rich on the forward strand, tagged with a single conversion byte, and,
for paired-end data, mate pairs are merged into one fragment record when
the fragment they span is longer than 0 and shorter than -L bases.

input may be '-' to read from standard input only together with -s or
--single-end, since the suffix learner reopens the input by path.
output is ignored when --stdout is given.
`)
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()

	if err := run(); err != nil {
		log.Fatalf("bs-format: %v", err)
	}
}

func run() error {
	if *singleEndFlag && *suffixLenFlag >= 0 {
		return ErrIncompatibleOptions
	}

	std, err := newStandardizer(*formatFlag)
	if err != nil {
		return err
	}

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(2)
	}
	inPath, outPath := args[0], args[1]

	ctx := vcontext.Background()

	in, header, err := openInput(ctx, inPath, *threadsFlag)
	if err != nil {
		return fmt.Errorf("opening %v: %w", inPath, err)
	}

	suffixLen := *suffixLenFlag
	if !*singleEndFlag && suffixLen < 0 {
		suffixLen, err = learnSuffixLen(ctx, inPath, *sampleSizeFlag, *forceFlag)
		if err != nil {
			return err
		}
	}

	if *verboseFlag {
		logRunSummary(inPath, outPath, suffixLen)
		warnIfFormatMismatch(header, *formatFlag)
	}

	cmdLine := strings.Join(os.Args, " ")
	if err := pipeline.AddProgramLine(header, cmdLine, version); err != nil {
		return err
	}

	out, closeOut, err := openOutput(ctx, outPath, header, *binaryFlag, *stdoutFlag, *threadsFlag)
	if err != nil {
		return fmt.Errorf("opening %v: %w", outPath, err)
	}
	defer closeOut()

	d := &pipeline.Driver{
		SuffixLen:   suffixLen,
		MaxFragLen:  *maxFragLenFlag,
		Standardize: std,
		SingleEnd:   *singleEndFlag,
	}
	return d.Run(context.Background(), in, out)
}

func newStandardizer(name string) (standardize.Standardizer, error) {
	var f standardize.Format
	switch name {
	case "abismal":
		f = standardize.Abismal
	case "walt":
		f = standardize.Walt
	case "bsmap":
		f = standardize.Bsmap
	case "bismark":
		f = standardize.Bismark
	default:
		return nil, fmt.Errorf("bs-format: unknown -f value %q", name)
	}
	return standardize.NewStandardizer(f)
}

// bgzfMagic is the leading two bytes of a gzip/bgzf stream, which is
// what every BAM file starts with; anything else is read as SAM text.
var bgzfMagic = [2]byte{0x1f, 0x8b}

func openInput(ctx context.Context, path string, nThreads int) (pipeline.RecordSource, *sam.Header, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := file.Open(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		r = f.Reader(ctx)
	}

	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("detecting container format: %w", err)
	}

	if len(magic) == 2 && magic[0] == bgzfMagic[0] && magic[1] == bgzfMagic[1] {
		reader, err := bam.NewReader(br, nThreads)
		if err != nil {
			return nil, nil, err
		}
		return pipeline.SourceFrom(reader), reader.Header(), nil
	}

	reader, err := sam.NewReader(br)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.SourceFrom(reader), reader.Header(), nil
}

func openOutput(ctx context.Context, path string, h *sam.Header, binary, toStdout bool, nThreads int) (pipeline.RecordSink, func(), error) {
	var w io.Writer
	closeFn := func() {}
	if toStdout {
		w = os.Stdout
	} else {
		f, err := file.Create(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		w = f.Writer(ctx)
		closeFn = func() {
			if err := f.Close(ctx); err != nil {
				log.Printf("closing %v: %v", path, err)
			}
		}
	}

	if binary {
		writer, err := bam.NewWriter(w, h, nThreads)
		if err != nil {
			return nil, nil, err
		}
		prev := closeFn
		closeFn = func() {
			if err := writer.Close(); err != nil {
				log.Printf("closing BAM writer: %v", err)
			}
			prev()
		}
		return pipeline.SinkTo(writer), closeFn, nil
	}

	writer, err := sam.NewWriter(w, h, 0)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.SinkTo(writer), closeFn, nil
}

// learnSuffixLen samples up to sampleSize read names from the head of
// the input, learns (or, with force, tolerates a degenerate) suffix
// length, and verifies the stream is adjacently mate-grouped under
// it.
func learnSuffixLen(ctx context.Context, path string, sampleSize int, force bool) (int, error) {
	names, err := sampleReadNames(ctx, path, sampleSize)
	if err != nil {
		return 0, err
	}

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	suffLen, repeatCount := suffix.Guess(sorted)
	if repeatCount >= 2 && !force {
		return 0, suffix.ErrNoValidSuffix
	}

	if err := suffix.CheckAdjacent(names, suffLen); err != nil && !force {
		return 0, err
	}
	return suffLen, nil
}

func sampleReadNames(ctx context.Context, path string, n int) ([]string, error) {
	in, _, err := openInput(ctx, path, 1)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for len(names) < n {
		r, err := in.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		names = append(names, r.Name)
	}
	return names, nil
}

func logRunSummary(inPath, outPath string, suffixLen int) {
	log.Printf("bs-format: input=%s output=%s format=%s single-end=%v "+
		"binary=%v stdout=%v force=%v threads=%d max-frag-len=%d suffix-len=%d cmd=%q",
		inPath, outPath, *formatFlag, *singleEndFlag, *binaryFlag, *stdoutFlag,
		*forceFlag, *threadsFlag, *maxFragLenFlag, suffixLen, strings.Join(os.Args, " "))
}

func warnIfFormatMismatch(h *sam.Header, format string) {
	raw, err := h.MarshalText()
	if err != nil {
		log.Printf("bs-format: warning: could not marshal header: %v", err)
		return
	}
	text := strings.ToLower(string(raw))
	if !strings.Contains(text, strings.ToLower(format)) {
		log.Printf("bs-format: warning: input header does not mention format %q", format)
	}
}
