package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/anisan-cli/anibridge/color"
	"github.com/anisan-cli/anibridge/constant"
	"github.com/anisan-cli/anibridge/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type buildInfo struct {
	App      string `json:"app"`
	Version  string `json:"version"`
	Revision string `json:"revision"`
	BuiltAt  string `json:"built_at"`
	BuiltBy  string `json:"built_by"`
	Platform string `json:"platform"`
}

func currentBuild() buildInfo {
	return buildInfo{
		App:      constant.App,
		Version:  constant.Version,
		Revision: constant.Revision,
		BuiltAt:  strings.TrimSpace(constant.BuiltAt),
		BuiltBy:  constant.BuiltBy,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "print only the version")
	versionCmd.Flags().BoolP("json", "j", false, "output as json")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		info := currentBuild()

		switch {
		case lo.Must(cmd.Flags().GetBool("short")):
			cmd.Println(info.Version)
		case lo.Must(cmd.Flags().GetBool("json")):
			printJSON(cmd, info)
		default:
			cmd.Printf("%s %s\n\n", style.Fg(color.Purple)("▇▇▇"), style.Bold(info.App))
			for _, row := range [][2]string{
				{"Version", info.Version},
				{"Revision", info.Revision},
				{"Built at", info.BuiltAt},
				{"Built by", info.BuiltBy},
				{"Platform", info.Platform},
			} {
				cmd.Printf("  %s %s\n", style.Faint(fmt.Sprintf("%-10s", row[0])), row[1])
			}
		}
	},
}
