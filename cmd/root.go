// Package cmd implements the command-line interface for anibridge.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/anisan-cli/anibridge/color"
	"github.com/anisan-cli/anibridge/constant"
	"github.com/anisan-cli/anibridge/inline"
	"github.com/anisan-cli/anibridge/key"
	"github.com/anisan-cli/anibridge/log"
	"github.com/anisan-cli/anibridge/style"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")
	rootCmd.PersistentFlags().BoolP("pretty", "p", false, "Indent JSON output")
}

// rootCmd defines the entry point for the anibridge application.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Anime catalog search, stream resolution and metadata listings",
	Long: style.New().Bold(true).Foreground(color.HiPurple).Render(constant.App) + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Search the catalog, resolve playable streams and browse Anilist listings"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(color.Red)("✖"), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

// printJSON writes v to the command output, indented when --pretty is set.
func printJSON(cmd *cobra.Command, v any) {
	pretty := lo.Must(cmd.Flags().GetBool("pretty"))
	handleErr(inline.Write(cmd.OutOrStdout(), v, pretty))
}
