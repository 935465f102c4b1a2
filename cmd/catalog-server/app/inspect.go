package app

import (
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/stacklok/toolhive-catalog/internal/exchange"
)

// maxManifestSize bounds the manifests read while inspecting
const maxManifestSize = 16 << 20

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive>",
		Short: "List the content of an exported archive",
		Long: `List the content of an exported archive: what it was exported from, the
export configuration and every manifest and media file it holds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectArchive(cmd.OutOrStdout(), args[0])
		},
	}
}

// inspectArchive writes a summary and an entry table of the archive at name
func inspectArchive(out io.Writer, name string) error {
	reader, err := zip.OpenReader(name)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", name, err)
	}
	defer reader.Close()

	var rows [][]string
	var content []byte
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		kind := "media"
		if strings.HasSuffix(f.Name, ".json") {
			data, err := readEntry(f)
			if err != nil {
				return err
			}
			kind = gjson.GetBytes(data, "kind").String()
			if f.Name == exchange.ContentFile {
				content = data
			}
		}
		rows = append(rows, []string{f.Name, kind, strconv.FormatUint(f.UncompressedSize64, 10)})
	}

	if content == nil {
		return fmt.Errorf("%s is not a catalog archive: %s is missing", name, exchange.ContentFile)
	}
	manifest, err := exchange.DecodeManifest[exchange.ContentInfo](content, exchange.KindContent)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "Archive:  %s\n", path.Base(name))
	_, _ = fmt.Fprintf(out, "Source:   %s %s\n", manifest.Content.Source, manifest.Content.SourceID)
	_, _ = fmt.Fprintf(out, "Title:    %s\n", manifest.Content.Title.Value)
	_, _ = fmt.Fprintf(out, "Schema:   %s\n", manifest.SchemaVersion)
	if cfg := manifest.Configuration; cfg != nil {
		_, _ = fmt.Fprintf(out, "Options:  applyRestrictions=%t optimizeSize=%t excludeItems=%t\n",
			cfg.ApplyRestrictions, cfg.OptimizeSize, cfg.ExcludeItems)
	}
	_, _ = fmt.Fprintln(out)

	table := tablewriter.NewWriter(out)
	table.Header("Entry", "Kind", "Size")
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render archive entries: %w", err)
		}
	}
	return table.Render()
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxManifestSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return data, nil
}
