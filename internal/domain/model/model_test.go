package model_test

import (
	"errors"
	"testing"

	model "github.com/okian/momentgrid/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestTier(t *testing.T) {
	convey.Convey("Given tier names from a catalog", t, func() {
		convey.Convey("When the case differs", func() {
			tier, ok := model.ParseTier(" legendary ")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(tier, convey.ShouldEqual, model.TierLegendary)
		})

		convey.Convey("When the tier is unknown", func() {
			_, ok := model.ParseTier("Fandom")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestRosterPartition(t *testing.T) {
	convey.Convey("Given the default roster", t, func() {
		roster := model.DefaultRoster()

		convey.Convey("Then every team lands in exactly one league", func() {
			for _, team := range []string{"Seattle Storm", "Los Angeles Lakers", "Chicago Sky", "Chicago Bulls"} {
				inPrimary := roster.Includes(model.LeaguePrimary, team)
				inSecondary := roster.Includes(model.LeagueSecondary, team)
				convey.So(inPrimary != inSecondary, convey.ShouldBeTrue)
				convey.So(roster.Includes(model.LeagueAll, team), convey.ShouldBeTrue)
			}
			convey.So(roster.LeagueOf("Seattle Storm"), convey.ShouldEqual, model.LeagueSecondary)
			convey.So(roster.LeagueOf("Los Angeles Lakers"), convey.ShouldEqual, model.LeaguePrimary)
		})

		convey.Convey("Then the secondary list is sorted and complete", func() {
			teams := roster.SecondaryTeams()
			convey.So(len(teams), convey.ShouldEqual, 17)
			convey.So(teams[0], convey.ShouldEqual, "Atlanta Dream")
		})
	})

	convey.Convey("Given the zero roster", t, func() {
		var roster model.Roster
		convey.So(roster.LeagueOf("Seattle Storm"), convey.ShouldEqual, model.LeaguePrimary)
	})

	convey.Convey("Given league identifiers", t, func() {
		l, ok := model.ParseLeague("wnba")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(l, convey.ShouldEqual, model.LeagueSecondary)

		l, ok = model.ParseLeague("")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(l, convey.ShouldEqual, model.LeagueAll)
		convey.So(l.String(), convey.ShouldEqual, "ALL")

		_, ok = model.ParseLeague("NHL")
		convey.So(ok, convey.ShouldBeFalse)
	})
}

func TestCategoryLabel(t *testing.T) {
	convey.Convey("Given category labels", t, func() {
		convey.Convey("When type and value match they conflict", func() {
			convey.So(model.TeamLabel("A").ConflictsWith(model.TeamLabel("A")), convey.ShouldBeTrue)
			convey.So(model.TeamLabel("A").ConflictsWith(model.SeasonLabel("A")), convey.ShouldBeFalse)
			convey.So(model.TeamLabel("A").ConflictsWith(model.TeamLabel("B")), convey.ShouldBeFalse)
		})

		convey.Convey("When parsing a typed label", func() {
			l, ok, err := model.ParseLabel("tier:rare")
			convey.So(err, convey.ShouldBeNil)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(l, convey.ShouldResemble, model.TierLabel(model.TierRare))
			convey.So(l.String(), convey.ShouldEqual, "tier:Rare")
		})

		convey.Convey("When parsing a bare value", func() {
			_, ok, err := model.ParseLabel("Boston Celtics")
			convey.So(err, convey.ShouldBeNil)
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("When parsing malformed labels", func() {
			_, _, err := model.ParseLabel("team:")
			convey.So(errors.Is(err, model.ErrBadLabel), convey.ShouldBeTrue)

			_, _, err = model.ParseLabel("tier:Mythic")
			convey.So(errors.Is(err, model.ErrBadLabel), convey.ShouldBeTrue)

			_, _, err = model.ParseLabel("  ")
			convey.So(errors.Is(err, model.ErrBadLabel), convey.ShouldBeTrue)
		})
	})
}

func TestGridAxes(t *testing.T) {
	convey.Convey("Given a grid", t, func() {
		g := model.Grid{
			Rows: [3]model.CategoryLabel{model.TeamLabel("A"), model.TeamLabel("B"), model.TierLabel(model.TierRare)},
			Cols: [3]model.CategoryLabel{model.TeamLabel("C"), model.TeamLabel("D"), model.SeasonLabel("2020-21")},
		}

		convey.Convey("Then axes are distinct and unshared", func() {
			convey.So(g.AxesDistinct(), convey.ShouldBeTrue)
			convey.So(g.SharesAcrossAxes(), convey.ShouldBeFalse)
			convey.So(len(g.Cells()), convey.ShouldEqual, 9)
			convey.So(g.Cells()[1], convey.ShouldResemble, model.Cell{Row: model.TeamLabel("A"), Col: model.TeamLabel("D")})
		})

		convey.Convey("When a row repeats", func() {
			g.Rows[1] = model.TeamLabel("A")
			convey.So(g.AxesDistinct(), convey.ShouldBeFalse)
		})

		convey.Convey("When a column reuses a row label", func() {
			g.Cols[0] = model.TeamLabel("A")
			convey.So(g.AxesDistinct(), convey.ShouldBeTrue)
			convey.So(g.SharesAcrossAxes(), convey.ShouldBeTrue)
		})

		convey.Convey("Then the key is stable", func() {
			convey.So(g.Key(), convey.ShouldEqual, "team:A|team:B|tier:Rare||team:C|team:D|season:2020-21")
		})
	})
}
