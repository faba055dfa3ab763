package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/supertonic-tts/internal/assets"
)

func newDownloadCommand(a *app) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download missing model files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if root == "" {
				root = modelRoot(a.cfg)
			}

			p := assets.New(root, provisionerOptions(a.cfg)...)
			report := p.Ensure(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Model root: %s\n", root)
			fmt.Fprintf(out, "  present:    %d\n", len(report.Present))
			fmt.Fprintf(out, "  downloaded: %d\n", len(report.Downloaded))

			if report.Complete() {
				return nil
			}

			failed := make([]string, 0, len(report.Failed))
			for rel := range report.Failed {
				failed = append(failed, rel)
			}
			sort.Strings(failed)
			for _, rel := range failed {
				fmt.Fprintf(out, "  failed:     %s: %v\n", rel, report.Failed[rel])
			}

			return fmt.Errorf("%d model files could not be downloaded", len(failed))
		},
	}

	cmd.Flags().StringVar(&root, "model-path", "", "Directory to store model files (defaults to the configured model root)")

	return cmd
}
