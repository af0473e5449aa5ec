// Command ziio-analyze runs the document analyses from the command line
// against the configured gateway, without the HTTP server.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/projectziio/ziio-ai/internal/analysis/service"
	"github.com/projectziio/ziio-ai/internal/assist"
	"github.com/projectziio/ziio-ai/internal/config"
	"github.com/projectziio/ziio-ai/internal/llm"
	"github.com/projectziio/ziio-ai/pkg/logger"
)

type cliOptions struct {
	baseURL string
	timeout time.Duration
	verbose bool
}

// deps is built lazily so --help works without configuration.
type deps struct {
	analyzer *service.Analyzer
	assist   *assist.Service
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:           "ziio-analyze",
		Short:         "Analyse documents and text with the configured models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				logger.Init("debug")
			} else {
				logger.Init("warn")
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Gateway base URL (default: OPENROUTER_BASE_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Operation timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(pageCmd(opts), documentCmd(opts), textCmd(opts), proofreadCmd(opts))
	return root
}

func (o *cliOptions) build() (*deps, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if o.baseURL != "" {
		cfg.LLM.BaseURL = o.baseURL
	}
	gw := llm.NewClient(llm.ConfigFrom(cfg.LLM))
	models := llm.ModelsFromConfig(cfg.LLM)
	return &deps{
		analyzer: service.NewAnalyzer(gw, models, service.Options{PageConcurrency: cfg.LLM.PageConcurrency}),
		assist:   assist.New(gw, models),
	}, nil
}

func (o *cliOptions) withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func pageCmd(o *cliOptions) *cobra.Command {
	var page, total int
	cmd := &cobra.Command{
		Use:   "page <image-url>",
		Short: "Assessment analysis of one page image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := o.build()
			if err != nil {
				return err
			}
			ctx, cancel := o.withTimeout(cmd)
			defer cancel()
			out, err := d.analyzer.AnalyzePage(ctx, args[0], page, total)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&total, "total", 1, "Total pages")
	return cmd
}

func documentCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "document <image-url>...",
		Short: "Analyse every page and synthesise the whole document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := o.build()
			if err != nil {
				return err
			}
			ctx, cancel := o.withTimeout(cmd)
			defer cancel()
			doc, err := d.analyzer.AnalyzeDocument(ctx, args)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
}

func textCmd(o *cliOptions) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "text [file]",
		Short: "Analyse plain text from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			d, err := o.build()
			if err != nil {
				return err
			}
			ctx, cancel := o.withTimeout(cmd)
			defer cancel()
			out, err := d.analyzer.AnalyzeText(ctx, text, mode)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "deep", "Analysis mode: quick, deep or technical")
	return cmd
}

func proofreadCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "proofread [file]",
		Short: "Stream proofreading suggestions for a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			d, err := o.build()
			if err != nil {
				return err
			}
			ctx, cancel := o.withTimeout(cmd)
			defer cancel()
			s, err := d.assist.Proofread(ctx, text)
			if err != nil {
				return err
			}
			defer s.Close()
			w := cmd.OutOrStdout()
			for {
				delta, err := s.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				fmt.Fprint(w, delta)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func printJSON(w io.Writer, v any) error {
	if raw, ok := v.(json.RawMessage); ok {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err := buf.WriteTo(w)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
