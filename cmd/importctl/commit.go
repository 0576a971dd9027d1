package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/core"
	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/store"
	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/store/memstore"
)

// fileCommit is the commit outcome for one input file.
type fileCommit struct {
	FileName string             `json:"fileName"`
	Source   core.SourceSystem  `json:"sourceSystem,omitempty"`
	Invalid  int                `json:"invalidRecords"`
	Error    string             `json:"error,omitempty"`
	Result   *core.CommitResult `json:"result,omitempty"`
}

func newCommitCmd(root *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "commit FILE...",
		Short: "Preview files and import their valid records",
		Long: `Preview each file, then commit the records that passed validation.
Each file is committed as its own import batch so row numbers in errors
refer to that file.

Records with validation errors are counted but not sent. Use the preview
command to see why they failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			files, err := readFiles(args)
			if err != nil {
				return err
			}

			var backend core.Store
			if dryRun {
				backend = memstore.New()
			} else {
				b, closeStore, err := store.Open(ctx, root.cfg.Database)
				if err != nil {
					return err
				}
				defer closeStore()
				backend = b
			}

			out, err := commitFiles(ctx, newService(root.cfg, backend), files)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Commit into an in-memory store and discard it")
	return cmd
}

func commitFiles(ctx context.Context, svc *core.Service, files []core.UploadFile) ([]fileCommit, error) {
	preview, err := svc.Preview(ctx, files)
	if err != nil {
		return nil, err
	}

	out := make([]fileCommit, 0, len(preview.Files))
	for _, fr := range preview.Files {
		fc := fileCommit{FileName: fr.FileName, Source: fr.SourceSystem, Error: fr.Error}

		valid := make([]core.CaseRecord, 0, len(fr.Records))
		for _, rec := range fr.Records {
			if rec.HasErrors() {
				fc.Invalid++
				continue
			}
			valid = append(valid, rec)
		}

		if len(valid) > 0 {
			res, err := svc.Commit(ctx, valid)
			if err != nil {
				return nil, fmt.Errorf("commit %s: %w", fr.FileName, err)
			}
			fc.Result = res
			slog.Info("file committed",
				"file", fr.FileName,
				"batch_id", res.BatchID,
				"imported", res.ImportedCount,
				"invalid", fc.Invalid,
			)
		}

		out = append(out, fc)
	}
	return out, nil
}
