package grid_test

import (
	"errors"
	"testing"

	"github.com/okian/momentgrid/internal/domain/grid"
	"github.com/okian/momentgrid/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func referencePools() grid.Pools {
	return grid.Pools{
		Teams:     []string{"A", "B", "C", "D", "E", "F"},
		Tiers:     []model.Tier{model.TierCommon, model.TierLegendary, model.TierRare},
		Seasons:   []string{"S1", "S2", "S3"},
		PlayTypes: []string{"Dunk", "Layup"},
	}
}

func axis(labels ...model.CategoryLabel) [3]model.CategoryLabel {
	return [3]model.CategoryLabel{labels[0], labels[1], labels[2]}
}

func TestCandidate(t *testing.T) {
	Convey("Given reference pools", t, func() {
		gen, err := grid.NewGenerator(referencePools())
		So(err, ShouldBeNil)

		Convey("When the tier lands on the rows", func() {
			g := gen.Candidate(grid.NewLCG(0))
			So(g.Rows, ShouldResemble, axis(model.TeamLabel("A"), model.TeamLabel("F"), model.TierLabel(model.TierLegendary)))
			So(g.Cols, ShouldResemble, axis(model.TeamLabel("E"), model.TeamLabel("C"), model.SeasonLabel("S1")))
		})

		Convey("When a play type replaces a column team", func() {
			g := gen.Candidate(grid.NewLCG(1))
			So(g.Rows, ShouldResemble, axis(model.TeamLabel("A"), model.TeamLabel("D"), model.TierLabel(model.TierRare)))
			So(g.Cols, ShouldResemble, axis(model.TeamLabel("E"), model.PlayTypeLabel("Dunk"), model.SeasonLabel("S1")))
		})

		Convey("When the tier lands on the columns", func() {
			g := gen.Candidate(grid.NewLCG(22))
			So(g.Rows, ShouldResemble, axis(model.TeamLabel("D"), model.TeamLabel("C"), model.SeasonLabel("S1")))
			So(g.Cols, ShouldResemble, axis(model.TeamLabel("B"), model.TeamLabel("E"), model.TierLabel(model.TierRare)))
		})

		Convey("When a play type replaces the row season", func() {
			g := gen.Candidate(grid.NewLCG(23))
			So(g.Rows, ShouldResemble, axis(model.TeamLabel("F"), model.TeamLabel("B"), model.PlayTypeLabel("Layup")))
			So(g.Cols, ShouldResemble, axis(model.TeamLabel("C"), model.TeamLabel("D"), model.TierLabel(model.TierCommon)))
		})

		Convey("Then no candidate repeats a label on either axis", func() {
			for seed := uint32(0); seed < 500; seed++ {
				g := gen.Candidate(grid.NewLCG(seed))
				So(g.AxesDistinct(), ShouldBeTrue)
				So(g.SharesAcrossAxes(), ShouldBeFalse)
			}
		})
	})

	Convey("Given pools without play types", t, func() {
		p := referencePools()
		p.PlayTypes = nil
		gen, err := grid.NewGenerator(p)
		So(err, ShouldBeNil)

		Convey("Then the team slot is kept", func() {
			g := gen.Candidate(grid.NewLCG(1))
			So(g.Cols[1].Type, ShouldEqual, model.LabelTeam)
			So(g.AxesDistinct(), ShouldBeTrue)
		})
	})

	Convey("Given undersized pools", t, func() {
		p := referencePools()

		Convey("When there are three teams", func() {
			p.Teams = p.Teams[:3]
			_, err := grid.NewGenerator(p)
			So(errors.Is(err, grid.ErrPoolTooSmall), ShouldBeTrue)
		})

		Convey("When there are no seasons", func() {
			p.Seasons = nil
			_, err := grid.NewGenerator(p)
			So(errors.Is(err, grid.ErrPoolTooSmall), ShouldBeTrue)
		})
	})
}
