package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/supertonic-tts/internal/plugin"
)

func newSayCommand(a *app) *cobra.Command {
	var (
		text string
		out  string
		lang string
		name string
	)

	cmd := &cobra.Command{
		Use:   "say [text]",
		Short: "Synthesize text into a WAV file",
		Example: `  supertonic say "Hello there" --out hello.wav
  echo "Bonjour" | supertonic say --lang fr --voice emily`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				text = args[0]
			}
			if text == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = strings.TrimSpace(string(data))
			}
			if text == "" {
				return errors.New("no text to synthesize")
			}

			p, err := newPlugin(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			path, _, err := p.Synthesize(cmd.Context(), plugin.Request{
				Text:       text,
				OutputPath: out,
				Lang:       lang,
				Voice:      name,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Text to synthesize (reads stdin when empty)")
	cmd.Flags().StringVarP(&out, "out", "o", "output.wav", "Output WAV file")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language tag (defaults to the configured language)")
	cmd.Flags().StringVarP(&name, "voice", "v", "", "Voice name or ID (defaults to the configured voice)")

	return cmd
}
