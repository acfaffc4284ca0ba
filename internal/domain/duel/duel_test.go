package duel_test

import (
	"testing"

	duel "github.com/okian/holmgang/internal/domain/duel"
	model "github.com/okian/holmgang/internal/domain/model"
	types "github.com/okian/holmgang/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func record(id, addrA, addrB, winner string) model.Duel {
	return model.Duel{
		ID:           id,
		ParticipantA: model.Participant{Address: addrA},
		ParticipantB: model.Participant{Address: addrB},
		Winner:       winner,
	}
}

func TestResolve(t *testing.T) {
	Convey("Given a record with participants 0xAA and 0xBB", t, func() {
		d := record("d1", "0xAA", "0xBB", "")

		Convey("When the viewpoint matches participant A", func() {
			So(duel.Resolve(d, "0xAA"), ShouldEqual, duel.First)
		})

		Convey("When the viewpoint matches participant B", func() {
			So(duel.Resolve(d, "0xBB"), ShouldEqual, duel.Second)
		})

		Convey("When the viewpoint matches neither participant", func() {
			So(duel.Resolve(d, "0xCC"), ShouldEqual, duel.NotParticipant)
		})

		Convey("When the viewpoint differs only in case", func() {
			Convey("Then resolution is case-insensitive for both slots", func() {
				So(duel.Resolve(d, "0xaa"), ShouldEqual, duel.First)
				So(duel.Resolve(d, "0Xaa"), ShouldEqual, duel.First)
				So(duel.Resolve(d, "0xbb"), ShouldEqual, duel.Second)
			})

			Convey("And mixed-case stored addresses resolve the same way", func() {
				mixed := record("d2", "0xAbCd", "0xEF", "")
				So(duel.Resolve(mixed, "0XABCD"), ShouldEqual, duel.Resolve(mixed, "0xabcd"))
				So(duel.Resolve(mixed, "0XABCD"), ShouldEqual, duel.First)
			})
		})
	})

	Convey("Given degenerate records", t, func() {
		Convey("When both participants share the same lowercased address", func() {
			d := record("d3", "0xAA", "0xaa", "")

			Convey("Then the first slot wins", func() {
				So(duel.Resolve(d, "0xAA"), ShouldEqual, duel.First)
			})
		})

		Convey("When the viewpoint is empty", func() {
			Convey("Then it is never a participant, even against empty addresses", func() {
				So(duel.Resolve(record("d4", "0xAA", "0xBB", ""), ""), ShouldEqual, duel.NotParticipant)
				So(duel.Resolve(record("d5", "", "0xBB", ""), ""), ShouldEqual, duel.NotParticipant)
				So(duel.Resolve(record("d6", "", "", ""), ""), ShouldEqual, duel.NotParticipant)
			})
		})

		Convey("When a participant address is empty but the viewpoint is not", func() {
			d := record("d7", "", "0xBB", "")
			So(duel.Resolve(d, "0xbb"), ShouldEqual, duel.Second)
			So(duel.Resolve(d, "0xaa"), ShouldEqual, duel.NotParticipant)
		})
	})
}

func TestRoleString(t *testing.T) {
	Convey("Given the Role labels", t, func() {
		So(duel.First.String(), ShouldEqual, "first")
		So(duel.Second.String(), ShouldEqual, "second")
		So(duel.NotParticipant.String(), ShouldEqual, "not_participant")
	})
}

func TestOutcome(t *testing.T) {
	Convey("Given the outcome rule", t, func() {
		Convey("When the winner is absent", func() {
			Convey("Then the outcome is undetermined for any viewpoint", func() {
				So(duel.Outcome("", "0xAA"), ShouldEqual, types.OutcomeUndetermined)
				So(duel.Outcome("", ""), ShouldEqual, types.OutcomeUndetermined)
			})
		})

		Convey("When the winner equals the viewpoint ignoring case", func() {
			So(duel.Outcome("0xAA", "0xaa"), ShouldEqual, types.OutcomeYou)
			So(duel.Outcome("0xaa", "0XAA"), ShouldEqual, types.OutcomeYou)
		})

		Convey("When the winner is someone else", func() {
			So(duel.Outcome("0xBB", "0xaa"), ShouldEqual, types.OutcomeOpponent)
		})

		Convey("When the viewpoint is empty and a winner exists", func() {
			So(duel.Outcome("0xAA", ""), ShouldEqual, types.OutcomeOpponent)
		})
	})
}

func TestProject(t *testing.T) {
	Convey("Given a record won by participant A", t, func() {
		d := model.Duel{
			ID:           "d1",
			ParticipantA: model.Participant{Address: "0xAA"},
			ParticipantB: model.Participant{Address: "0xBB"},
			StepsA1:      []string{"a-shot-1", "a-shot-2"},
			StepsA2:      []string{"a-dodge-1"},
			StepsB1:      []string{"b-shot-1"},
			StepsB2:      []string{"b-dodge-1", "b-dodge-2"},
			Winner:       "0xAA",
		}

		Convey("When projected from participant A's viewpoint", func() {
			p, ok := duel.Project(d, "0xaa")

			Convey("Then the projection is from the first slot and the outcome is a win", func() {
				So(ok, ShouldBeTrue)
				So(p.DuelID, ShouldEqual, "d1")
				So(p.Outcome, ShouldEqual, types.OutcomeYou)
				So(p.OpponentLabel, ShouldEqual, "0xBB")
				So(p.YourSteps1, ShouldResemble, []string{"a-shot-1", "a-shot-2"})
				So(p.YourSteps2, ShouldResemble, []string{"a-dodge-1"})
				So(p.OpponentSteps1, ShouldResemble, []string{"b-shot-1"})
				So(p.OpponentSteps2, ShouldResemble, []string{"b-dodge-1", "b-dodge-2"})
			})
		})

		Convey("When projected from participant B's viewpoint", func() {
			p, ok := duel.Project(d, "0xbb")

			Convey("Then the slots mirror and the outcome is a loss", func() {
				So(ok, ShouldBeTrue)
				So(p.Outcome, ShouldEqual, types.OutcomeOpponent)
				So(p.OpponentLabel, ShouldEqual, "0xAA")
				So(p.YourSteps1, ShouldResemble, []string{"b-shot-1"})
				So(p.YourSteps2, ShouldResemble, []string{"b-dodge-1", "b-dodge-2"})
				So(p.OpponentSteps1, ShouldResemble, []string{"a-shot-1", "a-shot-2"})
				So(p.OpponentSteps2, ShouldResemble, []string{"a-dodge-1"})
			})
		})

		Convey("When the opponent has a display name", func() {
			named := d
			named.ParticipantB.DisplayName = "Bjorn"
			p, ok := duel.Project(named, "0xAA")

			Convey("Then the label prefers the display name", func() {
				So(ok, ShouldBeTrue)
				So(p.OpponentLabel, ShouldEqual, "Bjorn")
			})
		})

		Convey("When the viewpoint is not a participant", func() {
			p, ok := duel.Project(d, "0xCC")

			Convey("Then the record is skipped", func() {
				So(ok, ShouldBeFalse)
				So(p, ShouldResemble, types.Projection{})
			})
		})

		Convey("When the viewpoint is empty", func() {
			_, ok := duel.Project(d, "")

			Convey("Then the record is skipped", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a record with no winner", t, func() {
		d := record("d2", "0xAA", "0xBB", "")
		p, ok := duel.Project(d, "0xAA")

		Convey("Then the outcome is undetermined", func() {
			So(ok, ShouldBeTrue)
			So(p.Outcome, ShouldEqual, types.OutcomeUndetermined)
		})
	})

	Convey("Given a record with absent step sequences", t, func() {
		d := record("d3", "0xAA", "0xBB", "0xBB")
		p, ok := duel.Project(d, "0xAA")

		Convey("Then every sequence is an empty list, never nil", func() {
			So(ok, ShouldBeTrue)
			So(p.YourSteps1, ShouldNotBeNil)
			So(p.YourSteps1, ShouldBeEmpty)
			So(p.YourSteps2, ShouldBeEmpty)
			So(p.OpponentSteps1, ShouldBeEmpty)
			So(p.OpponentSteps2, ShouldBeEmpty)
		})
	})

	Convey("Given a winner that the viewpoint's slot did not predict", t, func() {
		// Viewpoint sits in the second slot but still won: the outcome is
		// computed against the winner address, not the slot.
		d := record("d4", "0xAA", "0xBB", "0xbb")
		p, ok := duel.Project(d, "0xBB")

		So(ok, ShouldBeTrue)
		So(p.Outcome, ShouldEqual, types.OutcomeYou)
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given a mixed record collection for viewpoint 0xaa", t, func() {
		duels := []model.Duel{
			record("d1", "0xAA", "0xBB", "0xAA"), // win
			record("d2", "0xAA", "0xCC", "0xCC"), // loss
			record("d3", "0xAA", "0xDD", ""),     // undetermined -> loss
			record("d4", "0xEE", "0xFF", "0xEE"), // not a participant -> loss
		}

		Convey("When summarizing", func() {
			s := duel.Summarize(duels, "0xaa")

			Convey("Then wins count only matching winner addresses", func() {
				So(s.Wins, ShouldEqual, 1)
			})

			Convey("And every non-win is a loss", func() {
				So(s.Losses, ShouldEqual, 3)
			})

			Convey("And the partition covers the whole collection", func() {
				So(s.Wins+s.Losses, ShouldEqual, len(duels))
			})
		})

		Convey("When the winner matches the viewpoint without a participant slot", func() {
			// No precondition on participation: a stray record whose winner
			// address equals the viewpoint still counts as a win.
			stray := append(duels, record("d5", "0xEE", "0xFF", "0xAA"))
			s := duel.Summarize(stray, "0xAA")

			So(s.Wins, ShouldEqual, 2)
			So(s.Wins+s.Losses, ShouldEqual, len(stray))
		})

		Convey("When the viewpoint case differs from the winner case", func() {
			s := duel.Summarize(duels, "0XAA")

			So(s.Wins, ShouldEqual, 1)
		})

		Convey("When the viewpoint is empty", func() {
			s := duel.Summarize(duels, "")

			Convey("Then nothing counts as a win, absent winners included", func() {
				So(s.Wins, ShouldEqual, 0)
				So(s.Losses, ShouldEqual, len(duels))
			})
		})
	})

	Convey("Given one record won and one record lost", t, func() {
		duels := []model.Duel{
			record("d1", "0xAA", "0xBB", "0xAA"),
			record("d2", "0xAA", "0xBB", "0xBB"),
		}
		s := duel.Summarize(duels, "0xaa")

		So(s, ShouldResemble, types.Summary{Wins: 1, Losses: 1})
	})

	Convey("Given an empty collection", t, func() {
		s := duel.Summarize(nil, "0xAA")

		So(s, ShouldResemble, types.Summary{Wins: 0, Losses: 0})
	})
}

func TestProjectAll(t *testing.T) {
	Convey("Given an ordered record collection", t, func() {
		duels := []model.Duel{
			record("d1", "0xAA", "0xBB", "0xAA"),
			record("d2", "0xCC", "0xAA", ""),
			record("d3", "0xEE", "0xFF", "0xEE"), // skipped for 0xaa
			record("d4", "0xAA", "0xDD", "0xDD"),
		}

		Convey("When projecting for a participant viewpoint", func() {
			out := duel.ProjectAll(duels, "0xaa")

			Convey("Then input order is preserved and non-participant records are skipped", func() {
				So(out, ShouldHaveLength, 3)
				So(out[0].DuelID, ShouldEqual, "d1")
				So(out[1].DuelID, ShouldEqual, "d2")
				So(out[2].DuelID, ShouldEqual, "d4")
			})

			Convey("And outcomes follow the winner comparison per record", func() {
				So(out[0].Outcome, ShouldEqual, types.OutcomeYou)
				So(out[1].Outcome, ShouldEqual, types.OutcomeUndetermined)
				So(out[2].Outcome, ShouldEqual, types.OutcomeOpponent)
			})
		})

		Convey("When projecting twice with the same inputs", func() {
			first := duel.ProjectAll(duels, "0xaa")
			second := duel.ProjectAll(duels, "0xaa")

			Convey("Then the sequences are structurally identical", func() {
				So(second, ShouldResemble, first)
			})
		})

		Convey("When no record involves the viewpoint", func() {
			out := duel.ProjectAll(duels, "0x99")

			Convey("Then the sequence is empty but not nil", func() {
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
			})
		})
	})

	Convey("Given an empty collection", t, func() {
		out := duel.ProjectAll(nil, "0xAA")

		So(out, ShouldNotBeNil)
		So(out, ShouldBeEmpty)
	})
}
