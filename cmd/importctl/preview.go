package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/core"
)

func newPreviewCmd(root *rootOptions) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "preview FILE...",
		Short: "Print the annotated preview of one or more files",
		Long: `Parse, detect, map and validate each file and print the preview as
JSON. Nothing is written to the database.

Use --summary for one line per file instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readFiles(args)
			if err != nil {
				return err
			}

			res, err := newService(root.cfg, nil).Preview(cmd.Context(), files)
			if err != nil {
				return err
			}

			if summary {
				return writeSummary(cmd.OutOrStdout(), files, res)
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "Print one line per file instead of JSON")
	return cmd
}

func writeSummary(w io.Writer, files []core.UploadFile, res *core.PreviewResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSIZE\tSOURCE\tSTATUS\tRECORDS\tWITH ERRORS")
	for i, fr := range res.Files {
		invalid := 0
		for _, rec := range fr.Records {
			if rec.HasErrors() {
				invalid++
			}
		}
		source := string(fr.SourceSystem)
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			fr.FileName,
			humanize.IBytes(uint64(len(files[i].Data))),
			source,
			fr.Status,
			humanize.Comma(int64(fr.RecordCount)),
			humanize.Comma(int64(invalid)),
		)
		if fr.Error != "" {
			fmt.Fprintf(tw, "\t\t\terror: %s\t\t\n", fr.Error)
		}
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t\t%s\t\n", humanize.Comma(int64(res.TotalRecords)))
	return tw.Flush()
}
