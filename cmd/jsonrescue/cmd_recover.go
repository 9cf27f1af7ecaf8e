package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/jsonrescue/core/payload"
	"github.com/leofalp/jsonrescue/core/recovery"
	"github.com/leofalp/jsonrescue/internal/utils"
	"github.com/leofalp/jsonrescue/providers/ai"
	"github.com/leofalp/jsonrescue/providers/observability"
	"github.com/leofalp/jsonrescue/providers/observability/slogobs"
)

const (
	inputText     = "text"
	inputResponse = "response"
	inputEvents   = "events"
)

type recoverOptions struct {
	truncated      bool
	finishReason   string
	inputFormat    string
	useNumber      bool
	repairFallback bool
	excerpt        int
	indent         bool
	output         string
	shape          string
	logFormat      string
	logLevel       string
}

func newRecoverCmd() *cobra.Command {
	opts := recoverOptions{}

	cmd := &cobra.Command{
		Use:   "recover [file]",
		Short: "Recover the JSON object in a model response",
		Long: `Recover the JSON object in a model response and print it to stdout.

If a file is provided it is read, otherwise the response is read from stdin.

Input formats:
  text      the raw completion text (default)
  response  a JSON chat response: {"content": "...", "finish_reason": "..."}
  events    captured stream events, one JSON event per line, optionally
            as server-sent "data:" lines: {"type": "content", "content": "..."}

Exit status is 3 when the response holds no JSON object, 4 when every
repair attempt failed and 5 when the response itself is unusable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				input []byte
				err   error
			)
			if len(args) == 0 {
				input, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				input, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}
			return runRecover(cmd, opts, input)
		},
	}

	envFallback, _ := strconv.ParseBool(os.Getenv("JSONRESCUE_REPAIR_FALLBACK"))

	cmd.Flags().BoolVar(&opts.truncated, "truncated", false, "treat the response as cut off by the token limit")
	cmd.Flags().StringVar(&opts.finishReason, "finish-reason", "", "provider finish reason (length, max_tokens, MAX_TOKENS mark truncation)")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", inputText, "input format: text, response or events")
	cmd.Flags().BoolVar(&opts.useNumber, "use-number", false, "keep numbers as written instead of converting to float64")
	cmd.Flags().BoolVar(&opts.repairFallback, "repair-fallback", envFallback, "try a general JSON repair after the built-in strategies (env JSONRESCUE_REPAIR_FALLBACK)")
	cmd.Flags().IntVar(&opts.excerpt, "excerpt", recovery.ExcerptLength, "characters of failing text included in errors (1-300)")
	cmd.Flags().BoolVar(&opts.indent, "indent", false, "pretty-print the recovered JSON")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&opts.shape, "shape", "", "decode into a known shape before printing: journey or playbook")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", slogobs.GetFormatFromEnv().String(), "log format on stderr: compact or json")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", slogobs.LogLevelString(slogobs.GetLogLevelFromEnv()), "log level: trace, debug, info, warn or error")

	return cmd
}

func runRecover(cmd *cobra.Command, opts recoverOptions, input []byte) error {
	resp, err := readResponse(opts.inputFormat, input)
	if err != nil {
		return err
	}
	if opts.finishReason != "" {
		resp.FinishReason = opts.finishReason
	}
	if opts.truncated {
		resp.FinishReason = ai.FinishLength
	}

	observer := slogobs.New(
		slogobs.WithFormat(slogobs.ParseFormat(opts.logFormat)),
		slogobs.WithLevel(slogobs.ParseLogLevel(opts.logLevel)),
		slogobs.WithOutput(cmd.ErrOrStderr()),
	)
	ctx := observability.ContextWithObserver(cmd.Context(), observer)

	recoverer := recovery.NewRecoverer(
		recovery.WithUseNumber(opts.useNumber),
		recovery.WithRepairFallback(opts.repairFallback),
		recovery.WithExcerptLength(opts.excerpt),
	)
	res, err := ai.Recover(ctx, recoverer, resp)
	if err != nil {
		return err
	}

	out := res.Value
	if opts.shape != "" {
		out, err = payload.Decode(payload.Shape(opts.shape), res.Value)
		if err != nil {
			return err
		}
	}

	observer.Info(ctx, "Recovered",
		observability.String(observability.AttrRecoveryStrategy, res.Strategy),
		observability.Int(observability.AttrRecoveryAttempts, res.Attempts),
		observability.Bool(observability.AttrRecoveryClosed, res.Closed),
	)
	return render(cmd.OutOrStdout(), out, opts)
}

func render(w io.Writer, value any, opts recoverOptions) error {
	switch strings.ToLower(opts.output) {
	case "json", "":
		_, err := fmt.Fprintln(w, utils.JSONToString(value, opts.indent))
		return err
	case "yaml", "yml":
		// Round-trip through JSON so struct fields keep their JSON names.
		var tree any
		if err := json.Unmarshal([]byte(utils.JSONToString(value)), &tree); err != nil {
			return fmt.Errorf("render yaml: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("render yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", opts.output)
}

// readResponse turns the raw input into a chat response according to format.
func readResponse(format string, input []byte) (*ai.ChatResponse, error) {
	switch strings.ToLower(format) {
	case inputText, "":
		return &ai.ChatResponse{Content: string(input)}, nil

	case inputResponse:
		var resp ai.ChatResponse
		if err := json.Unmarshal(input, &resp); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return &resp, nil

	case inputEvents:
		resp, err := ai.ReadEventStream(bytes.NewReader(input)).Collect()
		if err != nil {
			return nil, fmt.Errorf("decode events: %w", err)
		}
		return resp, nil
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}
