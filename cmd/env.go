package cmd

import (
	"os"
	"strings"

	"github.com/anisan-cli/anibridge/color"
	"github.com/anisan-cli/anibridge/config"
	"github.com/anisan-cli/anibridge/constant"
	"github.com/anisan-cli/anibridge/style"
	"github.com/anisan-cli/anibridge/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

type envVar struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
	Set   bool   `json:"set"`
}

// envVars lists every environment variable the configuration reads, sorted by name.
func envVars() []envVar {
	names := lo.Map(config.EnvExposed, func(k string, _ int) string {
		return strings.ToUpper(constant.App + "_" + config.EnvKeyReplacer.Replace(k))
	})
	names = append(names, where.EnvConfigPath)
	slices.Sort(names)

	return lo.Map(names, func(name string, _ int) envVar {
		value, set := os.LookupEnv(name)
		return envVar{Name: name, Value: value, Set: set && value != ""}
	})
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "only variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "only variables that are not set")
	envCmd.Flags().BoolP("json", "j", false, "output as json")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List supported environment variables",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		vars := lo.Filter(envVars(), func(v envVar, _ int) bool {
			return !(setOnly && !v.Set) && !(unsetOnly && v.Set)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			printJSON(cmd, vars)
			return
		}

		name := style.New().Bold(true).Foreground(color.Purple)
		for _, v := range vars {
			value := lo.Ternary(v.Set, style.Fg(color.Green)(v.Value), style.Fg(color.Red)("unset"))
			cmd.Printf("%s=%s\n", name.Render(v.Name), value)
		}
	},
}
