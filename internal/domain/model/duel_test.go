package model_test

import (
	"testing"

	model "github.com/okian/holmgang/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParticipantLabel(t *testing.T) {
	convey.Convey("Given a Participant", t, func() {
		convey.Convey("When a display name is set", func() {
			p := model.Participant{Address: "0xaa", DisplayName: "Ragnar"}

			convey.Convey("Then the label is the display name", func() {
				convey.So(p.Label(), convey.ShouldEqual, "Ragnar")
			})
		})

		convey.Convey("When the display name is empty", func() {
			p := model.Participant{Address: "0xBB"}

			convey.Convey("Then the label falls back to the address verbatim", func() {
				convey.So(p.Label(), convey.ShouldEqual, "0xBB")
			})
		})

		convey.Convey("When both fields are empty", func() {
			p := model.Participant{}

			convey.Convey("Then the label is empty", func() {
				convey.So(p.Label(), convey.ShouldEqual, "")
			})
		})
	})
}

func TestDuel(t *testing.T) {
	convey.Convey("Given a Duel struct", t, func() {
		convey.Convey("When creating a fully populated duel", func() {
			d := model.Duel{
				ID:           "d-123",
				ParticipantA: model.Participant{Address: "0xAA", DisplayName: "Alice"},
				ParticipantB: model.Participant{Address: "0xBB"},
				StepsA1:      []string{"3", "1", "4"},
				StepsA2:      []string{"left", "right"},
				StepsB1:      []string{"2"},
				StepsB2:      []string{},
				Winner:       "0xAA",
			}

			convey.Convey("Then it should hold the values as given", func() {
				convey.So(d.ID, convey.ShouldEqual, "d-123")
				convey.So(d.ParticipantA.Address, convey.ShouldEqual, "0xAA")
				convey.So(d.ParticipantB.DisplayName, convey.ShouldEqual, "")
				convey.So(d.StepsA1, convey.ShouldResemble, []string{"3", "1", "4"})
				convey.So(d.Winner, convey.ShouldEqual, "0xAA")
			})
		})

		convey.Convey("When creating a zero-value duel", func() {
			d := model.Duel{}

			convey.Convey("Then every field is empty and the winner is unresolved", func() {
				convey.So(d.ID, convey.ShouldEqual, "")
				convey.So(d.ParticipantA.Address, convey.ShouldEqual, "")
				convey.So(d.StepsA1, convey.ShouldBeNil)
				convey.So(d.Winner, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When step sequences carry arbitrary opaque values", func() {
			d := model.Duel{
				ID:      "d-opaque",
				StepsA1: []string{"shot", "🎯", ""},
				StepsB2: []string{"dodge", "dodge", "dodge"},
			}

			convey.Convey("Then they are stored without interpretation", func() {
				convey.So(d.StepsA1, convey.ShouldResemble, []string{"shot", "🎯", ""})
				convey.So(d.StepsB2, convey.ShouldHaveLength, 3)
			})
		})
	})
}
