package progress

import (
	"fmt"
	"testing"
	"time"

	"github.com/kinogram/kino/filesystem"
	"github.com/kinogram/kino/source"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

var stores int

func newTestStore() *Store {
	stores++
	s := New(fmt.Sprintf("/progress/%d.json", stores))

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return s
}

func TestStore(t *testing.T) {
	Convey("Given an empty store", t, func() {
		store := newTestStore()

		Convey("When nothing was saved", func() {
			Convey("Then no position should be returned", func() {
				So(store.Get("42").IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("When a position is saved", func() {
			store.Set("42", 42)

			Convey("Then it should be returned", func() {
				So(store.Get("42").OrEmpty(), ShouldEqual, 42)
			})

			Convey("And overwritten", func() {
				store.Set("42", 10)
				So(store.Get("42").OrEmpty(), ShouldEqual, 10)
			})
		})

		Convey("When a zero position is saved", func() {
			store.Set("7", 0)

			Convey("Then it should be treated as absent", func() {
				So(store.Get("7").IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("When the movie is described", func() {
			store.Set("42", 600)
			store.Describe("42", source.Movie{Title: "Stalker", Year: 1979, Duration: 161}, 0)

			Convey("Then the record should carry it", func() {
				list, err := store.List()
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, 1)
				So(list[0].Title, ShouldEqual, "Stalker")
				So(list[0].Duration, ShouldEqual, 161*60)
				So(list[0].Position, ShouldEqual, 600)
				So(list[0].String(), ShouldEqual, "Stalker (1979) : 10:00 / 2:41:00")
			})

			Convey("And the real duration should win over the hint", func() {
				store.Describe("42", source.Movie{Title: "Stalker"}, 9600)
				list, _ := store.List()
				So(list[0].Duration, ShouldEqual, 9600)
			})
		})
	})
}

func TestListing(t *testing.T) {
	Convey("Given a store with several records", t, func() {
		store := newTestStore()
		store.Describe("1", source.Movie{Title: "Solaris"}, 10000)
		store.Describe("2", source.Movie{Title: "Mirror"}, 6000)
		store.Describe("3", source.Movie{Title: "Stalker"}, 9600)
		store.Set("1", 5000)

		Convey("When listing", func() {
			list, err := store.List()

			Convey("Then the most recently updated should come first", func() {
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, 3)
				So(list[0].MediaID, ShouldEqual, "1")
				So(list[1].MediaID, ShouldEqual, "3")
				So(list[0].Percent(), ShouldEqual, 50)
			})
		})

		Convey("When filtering by title", func() {
			list, err := store.Filter("stlkr")

			Convey("Then only fuzzy matches should be returned", func() {
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, 1)
				So(list[0].Title, ShouldEqual, "Stalker")
			})
		})

		Convey("When filtering with an empty query", func() {
			list, err := store.Filter("  ")
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 3)
		})

		Convey("When a record is removed", func() {
			So(store.Remove("2"), ShouldBeNil)
			So(store.Remove("404"), ShouldBeNil)

			ids, err := store.IDs()
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []string{"1", "3"})
		})

		Convey("When the store is cleared", func() {
			So(store.Clear(), ShouldBeNil)

			list, err := store.List()
			So(err, ShouldBeNil)
			So(list, ShouldBeEmpty)
		})
	})
}
