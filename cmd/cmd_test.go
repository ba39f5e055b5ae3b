package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/anisan-cli/anibridge/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func execute(args ...string) string {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	So(rootCmd.Execute(), ShouldBeNil)
	return buf.String()
}

func TestSchema(t *testing.T) {
	filesystem.SetMemMapFs()

	Convey("The schema command describes every output document", t, func() {
		for name := range schemaTargets {
			out := execute("schema", "--type", name)

			var schema map[string]any
			So(json.Unmarshal([]byte(out), &schema), ShouldBeNil)
			So(schema, ShouldNotBeEmpty)
		}

		So(execute("schema", "--type", "resolved"), ShouldContainSubstring, "playable_url")
		So(execute("schema", "--type", "anime", "--pretty"), ShouldContainSubstring, "\n  ")
	})
}

func TestCommands(t *testing.T) {
	Convey("Every operation is reachable from the root command", t, func() {
		for _, use := range []string{"search", "episodes", "sources", "resolve", "trending", "seasonal", "top", "recent", "inline", "cache", "clear", "config", "env", "where", "schema", "version"} {
			found, _, err := rootCmd.Find([]string{use})
			So(err, ShouldBeNil)
			So(found.Name(), ShouldEqual, use)
		}
	})
}

func TestBuildAndEnv(t *testing.T) {
	Convey("Version reports build information as json", t, func() {
		var info buildInfo
		So(json.Unmarshal([]byte(execute("version", "--json")), &info), ShouldBeNil)
		So(info.App, ShouldEqual, "anibridge")
		So(info.Platform, ShouldContainSubstring, "/")
	})

	Convey("Env lists every configuration variable once", t, func() {
		t.Setenv("ANIBRIDGE_LOGS_LEVEL", "debug")

		var vars []envVar
		So(json.Unmarshal([]byte(execute("env", "--json")), &vars), ShouldBeNil)

		byName := lo.SliceToMap(vars, func(v envVar) (string, envVar) { return v.Name, v })
		So(byName, ShouldHaveLength, len(vars))
		So(byName, ShouldContainKey, "ANIBRIDGE_CONFIG_PATH")
		So(byName["ANIBRIDGE_LOGS_LEVEL"].Set, ShouldBeTrue)
		So(byName["ANIBRIDGE_LOGS_LEVEL"].Value, ShouldEqual, "debug")
		So(byName["ANIBRIDGE_CACHE_ENABLED"].Set, ShouldBeFalse)

		So(execute("env", "--json"), ShouldEqual, execute("env", "--json"))
	})
}
