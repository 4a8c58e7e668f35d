package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"sundarban-extract/internal/config"
)

var variablesCmd = &cobra.Command{
	Use:   "variables",
	Short: "List the registered extraction variables",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := make([][]string, 0, len(config.Variables()))
		for _, v := range config.Variables() {
			rows = append(rows, []string{
				v.Name,
				v.Dataset,
				v.Band,
				fmt.Sprintf("%dd", v.ResolutionDays),
				strconv.FormatFloat(v.ScaleMeters, 'f', -1, 64) + "m",
				v.OutputFile,
			})
		}
		renderTable(cmd.OutOrStdout(), []string{"Name", "Dataset", "Band", "Window", "Scale", "Output"}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(variablesCmd)
}

// renderTable prints a borderless left-aligned table.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
	table.Header(headers)
	table.Bulk(rows)
	table.Render()
}
