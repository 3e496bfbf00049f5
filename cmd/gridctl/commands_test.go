package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/momentgrid/internal/app"
	"github.com/okian/momentgrid/internal/domain/model"
)

func run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGridctl(t *testing.T) {
	convey.Convey("Given a synthetic catalog written by synth", t, func() {
		dir := t.TempDir()
		jsonPath := filepath.Join(dir, "moments.json")
		out, err := run("synth", "--out", jsonPath, "--players", "120", "--seed", "7")
		convey.So(err, convey.ShouldBeNil)
		convey.So(out, convey.ShouldContainSubstring, "wrote 600 moments")

		convey.Convey("When printing stats", func() {
			out, err := run("stats", "--catalog", jsonPath)
			convey.So(err, convey.ShouldBeNil)
			var st service.CatalogStats
			convey.So(json.Unmarshal([]byte(out), &st), convey.ShouldBeNil)
			convey.So(st.Loaded, convey.ShouldBeTrue)
			convey.So(st.Leagues[0].TotalMoments, convey.ShouldEqual, 600)
		})

		convey.Convey("When generating a grid twice", func() {
			first, err := run("generate", "--catalog", jsonPath, "--date", "2024-01-15", "--league", "NBA", "--attempts", "40")
			convey.So(err, convey.ShouldBeNil)
			second, err := run("generate", "--catalog", jsonPath, "--date", "2024-01-15", "--league", "NBA", "--attempts", "40")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the output is identical apart from the catalog version", func() {
				var a, b model.GridResult
				convey.So(json.Unmarshal([]byte(first), &a), convey.ShouldBeNil)
				convey.So(json.Unmarshal([]byte(second), &b), convey.ShouldBeNil)
				convey.So(a.Grid, convey.ShouldResemble, b.Grid)
				convey.So(a.Seed, convey.ShouldEqual, b.Seed)
			})
		})

		convey.Convey("When generating with analysis", func() {
			out, err := run("generate", "--catalog", jsonPath, "--date", "2024-01-15", "--analyze", "--attempts", "20")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "averageAnswers")
		})

		convey.Convey("When validating an unknown player", func() {
			out, err := run("validate", "--catalog", jsonPath, "--player", "Player 00l", "--row", "Team 01", "--col", "tier:Common")
			convey.So(err, convey.ShouldBeNil)
			var v service.Validation
			convey.So(json.Unmarshal([]byte(out), &v), convey.ShouldBeNil)
			convey.So(v.Reason, convey.ShouldEqual, "unknown_player")
			convey.So(v.Suggestions, convey.ShouldNotBeEmpty)
		})

		convey.Convey("When the league is unknown", func() {
			_, err := run("generate", "--catalog", jsonPath, "--league", "NFL")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When writing and reading a SQLite snapshot", func() {
			dbPath := filepath.Join(dir, "moments.db")
			_, err := run("synth", "--out", dbPath, "--players", "40")
			convey.So(err, convey.ShouldBeNil)
			out, err := run("stats", "--catalog", dbPath)
			convey.So(err, convey.ShouldBeNil)
			convey.So(strings.Contains(out, `"loaded": true`), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given no catalog", t, func() {
		t.Setenv("MOMENTGRID_CATALOG_PATH", "")
		_, err := run("stats")
		convey.So(err, convey.ShouldNotBeNil)
	})
}
