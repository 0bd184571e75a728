package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"textaug/internal/batch"
	"textaug/internal/config"
	"textaug/internal/registry"
	"textaug/internal/resource"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "textaug",
		Short:        "Character and word level text augmentation",
		SilenceUsage: true,
	}
	root.AddCommand(newAugmentCmd(), newTablesCmd())
	return root
}

type augmentFlags struct {
	configPath string
	file       string
	n          int
	threads    int
	seed       uint64

	typ       string
	lang      string
	action    string
	swapMode  string
	modelPath string
	charMin   int
	charMax   int
	charP     float64
	wordMin   int
	wordMax   int
	wordP     float64
	minChar   int
	stopwords []string
}

func newAugmentCmd() *cobra.Command {
	var f augmentFlags
	cmd := &cobra.Command{
		Use:   "augment [text...]",
		Short: "Augment text given as arguments or read from a file",
		Long: `Augment text and print one result per line.

Arguments are joined into a single text which is augmented n times.
With --file every line of the file is one item and is augmented once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAugment(cmd, f, args)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML config file; its augmenter section is the base spec")
	fl.StringVarP(&f.file, "file", "f", "", "read items from a file, one per line")
	fl.IntVarP(&f.n, "n", "n", 1, "number of outputs for a single text")
	fl.IntVarP(&f.threads, "threads", "t", 1, "number of workers")
	fl.Uint64Var(&f.seed, "seed", 0, "random seed; results are reproducible for a fixed seed")
	fl.StringVar(&f.typ, "type", "", "augmenter: "+strings.Join(registry.Names(), ", "))
	fl.StringVar(&f.lang, "lang", "", "language of the built-in tables")
	fl.StringVar(&f.action, "action", "", "insert, substitute, swap or delete")
	fl.StringVar(&f.swapMode, "swap-mode", "", "adjacent, middle or random")
	fl.StringVar(&f.modelPath, "model-path", "", "keyboard or OCR mapping file")
	fl.IntVar(&f.charMin, "aug-char-min", 0, "minimum characters to augment per word")
	fl.IntVar(&f.charMax, "aug-char-max", 0, "maximum characters to augment per word")
	fl.Float64Var(&f.charP, "aug-char-p", 0, "share of characters to augment")
	fl.IntVar(&f.wordMin, "aug-word-min", 0, "minimum words to augment")
	fl.IntVar(&f.wordMax, "aug-word-max", 0, "maximum words to augment")
	fl.Float64Var(&f.wordP, "aug-word-p", 0, "share of words to augment")
	fl.IntVar(&f.minChar, "min-char", 0, "minimum word length to augment")
	fl.StringSliceVar(&f.stopwords, "stopwords", nil, "words never augmented")
	return cmd
}

func runAugment(cmd *cobra.Command, f augmentFlags, args []string) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(cmd.ErrOrStderr())

	spec := cfg.Augmenter
	fl := cmd.Flags()
	if fl.Changed("type") {
		spec.Type = f.typ
	}
	if fl.Changed("lang") {
		spec.Lang = f.lang
	}
	if fl.Changed("action") {
		spec.Action = f.action
	}
	if fl.Changed("swap-mode") {
		spec.SwapMode = f.swapMode
	}
	if fl.Changed("model-path") {
		spec.ModelPath = f.modelPath
	}
	if fl.Changed("aug-char-min") {
		spec.CharMin = &f.charMin
	}
	if fl.Changed("aug-char-max") {
		spec.CharMax = &f.charMax
	}
	if fl.Changed("aug-char-p") {
		spec.CharP = &f.charP
	}
	if fl.Changed("aug-word-min") {
		spec.WordMin = &f.wordMin
	}
	if fl.Changed("aug-word-max") {
		spec.WordMax = &f.wordMax
	}
	if fl.Changed("aug-word-p") {
		spec.WordP = &f.wordP
	}
	if fl.Changed("min-char") {
		spec.MinChar = &f.minChar
	}
	if fl.Changed("stopwords") {
		spec.Stopwords = f.stopwords
	}

	aug, err := registry.Build(spec, logger)
	if err != nil {
		return err
	}

	var data any
	switch {
	case f.file != "" && len(args) > 0:
		return fmt.Errorf("text arguments and --file are mutually exclusive")
	case f.file != "":
		lines, err := readLines(f.file)
		if err != nil {
			return err
		}
		data = lines
	case len(args) > 0:
		data = strings.Join(args, " ")
	default:
		return fmt.Errorf("no text given")
	}

	var opts []batch.Option
	opts = append(opts, batch.WithLogger(logger))
	if fl.Changed("seed") {
		opts = append(opts, batch.WithSeed(f.seed))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	results, err := batch.New(aug, opts...).Augment(ctx, data, f.n, f.threads)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(cmd.OutOrStdout())
	for _, r := range results {
		fmt.Fprintln(w, r)
	}
	return w.Flush()
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var lines []string
	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}

func newTablesCmd() *cobra.Command {
	var lang, modelPath string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Inspect keyboard and OCR substitution tables",
	}
	cmd.PersistentFlags().StringVar(&lang, "lang", "en", "language of the built-in tables")
	cmd.PersistentFlags().StringVar(&modelPath, "model-path", "", "mapping file instead of the built-in table")

	keyboard := &cobra.Command{
		Use:   "keyboard <char>",
		Short: "Print the keyboard neighbours of a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resource.Keyboard(lang, modelPath, resource.KeyboardFlags{SpecialChar: true, Numeric: true, UpperCase: true})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range args[0] {
				fmt.Fprintf(out, "%c: %s\n", r, string(t.Candidates(r)))
			}
			return nil
		},
	}
	ocr := &cobra.Command{
		Use:   "ocr <char>",
		Short: "Print the OCR confusions of a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resource.OCR(lang, modelPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], strings.Join(t.Predict(args[0]), " "))
			return nil
		},
	}
	cmd.AddCommand(keyboard, ocr)
	return cmd
}
