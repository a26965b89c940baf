package main

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"healthsync/internal/domain"
)

func (c *cli) reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Manage uploaded health reports",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List uploaded reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := c.api.ListReports(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(reports)
			}
			rows := make([][]string, 0, len(reports))
			for _, r := range reports {
				rows = append(rows, []string{r.ID, r.Name, r.Type, r.Date, domain.FormatFileSize(r.Size)})
			}
			return c.table([]string{"ID", "NAME", "TYPE", "DATE", "SIZE"}, rows)
		},
	}

	recent := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent uploads",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := c.api.RecentReports(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(reports)
			}
			rows := make([][]string, 0, len(reports))
			for _, r := range reports {
				rows = append(rows, []string{r.Name, r.Date, r.Status})
			}
			return c.table([]string{"NAME", "DATE", "STATUS"}, rows)
		},
	}

	var mimeType string
	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a PDF or image report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			typ := mimeType
			if typ == "" {
				typ = mime.TypeByExtension(filepath.Ext(path))
			}
			file, err := c.api.UploadReport(cmd.Context(), filepath.Base(path), typ, f)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(file)
			}
			fmt.Fprintf(c.out, "Uploaded %s as %s (%s)\n", file.Name, file.ID, domain.FormatFileSize(file.Size))
			return nil
		},
	}
	upload.Flags().StringVar(&mimeType, "type", "", "MIME type (default: from the file extension)")

	var out string
	download := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _, err := c.api.DownloadReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer body.Close()

			if out == "" || out == "-" {
				_, err = io.Copy(c.out, body)
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, body); err != nil {
				f.Close()
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			return f.Close()
		},
	}
	download.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a report and its stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.api.DeleteReport(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, recent, upload, download, del, c.exportCmd("reports"))
	return cmd
}
