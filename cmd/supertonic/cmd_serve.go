package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/supertonic-tts/internal/config"
	"github.com/ekisa-team/supertonic-tts/internal/plugin"
)

// speaker holds the live plugin and swaps it when the config changes.
type speaker struct {
	mu     sync.Mutex
	plugin *plugin.Plugin
}

func (s *speaker) synthesize(ctx context.Context, req plugin.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, _, err := s.plugin.Synthesize(ctx, req)
	return path, err
}

func (s *speaker) swap(next *plugin.Plugin) {
	s.mu.Lock()
	prev := s.plugin
	s.plugin = next
	s.mu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			slog.Warn("Failed to close previous plugin", "error", err)
		}
	}
}

func (s *speaker) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plugin == nil {
		return nil
	}
	return s.plugin.Close()
}

// parseLine splits an optional "lang:voice|" prefix from the text.
func parseLine(line string) (lang, name, text string) {
	head, rest, ok := strings.Cut(line, "|")
	if !ok || strings.ContainsAny(head, " \t") {
		return "", "", line
	}
	lang, name, _ = strings.Cut(head, ":")
	return lang, name, strings.TrimSpace(rest)
}

func newServeCommand(a *app) *cobra.Command {
	var (
		outDir string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Synthesize one utterance per stdin line",
		Long: `Keep the model loaded and synthesize every line read from stdin into
<out-dir>/utt_NNNN.wav, printing each path. A line may start with
"lang:voice|" to override the defaults, e.g. "fr:emily|Bonjour".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			p, err := newPlugin(ctx, a.cfg)
			if err != nil {
				return err
			}
			sp := &speaker{plugin: p}
			defer sp.close()

			if watch {
				w, err := config.NewWatcher(a.configPath, func(cfg *config.Config, err error) {
					if err != nil {
						return
					}
					next, err := newPlugin(ctx, cfg)
					if err != nil {
						slog.Error("Failed to rebuild plugin, keeping the previous one", "error", err)
						return
					}
					sp.swap(next)
					slog.Info("Plugin rebuilt from config", "path", a.configPath)
				})
				if err != nil {
					slog.Warn("Config watching disabled", "path", a.configPath, "error", err)
				} else {
					defer w.Close()
				}
			}

			lines := make(chan string)
			go func() {
				defer close(lines)
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					lines <- scanner.Text()
				}
			}()

			n := 0
			for {
				select {
				case <-ctx.Done():
					return nil
				case line, ok := <-lines:
					if !ok {
						return nil
					}

					lang, name, text := parseLine(strings.TrimSpace(line))
					if text == "" {
						continue
					}

					n++
					path, err := sp.synthesize(ctx, plugin.Request{
						Text:       text,
						OutputPath: filepath.Join(outDir, fmt.Sprintf("utt_%04d.wav", n)),
						Lang:       lang,
						Voice:      name,
					})
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
						continue
					}
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
			}
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "utterances", "Directory for synthesized WAV files")
	cmd.Flags().BoolVar(&watch, "watch", true, "Rebuild the plugin when the config file changes")

	return cmd
}
