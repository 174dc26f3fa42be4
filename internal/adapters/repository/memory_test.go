package repository_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/contactd/internal/adapters/repository"
	"github.com/okian/contactd/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func validProject() model.Project {
	return model.Project{
		Title:        "Test Project",
		Description:  "A description for the test project.",
		Technologies: "Go, PostgreSQL",
	}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		store := repository.NewMemoryStore(repository.WithClock(func() time.Time { return fixed }))
		ctx := context.Background()

		Convey("When listing", func() {
			ps, err := store.List(ctx)
			So(err, ShouldBeNil)
			So(ps, ShouldBeEmpty)
		})

		Convey("When creating two projects", func() {
			a, err := store.Create(ctx, validProject())
			So(err, ShouldBeNil)
			second := validProject()
			second.Title = "  Second  "
			second.ProjectURL = "https://example.com/second"
			b, err := store.Create(ctx, second)
			So(err, ShouldBeNil)

			Convey("Then IDs and timestamps are assigned", func() {
				So(a.ID, ShouldEqual, 1)
				So(b.ID, ShouldEqual, 2)
				So(a.CreatedAt, ShouldEqual, fixed)
				So(b.Title, ShouldEqual, "Second")
			})

			Convey("Then they are listed in ID order", func() {
				ps, err := store.List(ctx)
				So(err, ShouldBeNil)
				So(ps, ShouldHaveLength, 2)
				So(ps[0].ID, ShouldEqual, 1)
				So(ps[1].ID, ShouldEqual, 2)
				n, _ := store.Count(ctx)
				So(n, ShouldEqual, 2)
			})

			Convey("Then each can be retrieved", func() {
				got, err := store.Get(ctx, b.ID)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, b)
			})
		})

		Convey("When retrieving an unknown ID", func() {
			_, err := store.Get(ctx, 42)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When creating an invalid project", func() {
			_, err := store.Create(ctx, model.Project{Title: strings.Repeat("t", 101), ImageURL: "ftp://x"})

			Convey("Then every offending field is reported and nothing is stored", func() {
				So(errors.Is(err, repository.ErrInvalidProject), ShouldBeTrue)
				var ve *repository.ValidationError
				So(errors.As(err, &ve), ShouldBeTrue)
				So(ve.Fields, ShouldContainKey, "title")
				So(ve.Fields, ShouldContainKey, "description")
				So(ve.Fields, ShouldContainKey, "technologies")
				So(ve.Fields["image_url"], ShouldEqual, "enter a valid URL")
				n, _ := store.Count(ctx)
				So(n, ShouldEqual, 0)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given project URLs", t, func() {
		p := validProject()

		Convey("Then blank URLs are allowed", func() {
			_, err := repository.Validate(p)
			So(err, ShouldBeNil)
		})

		Convey("Then relative or scheme-less URLs are rejected", func() {
			p.RepositoryURL = "github.com/okian/contactd"
			_, err := repository.Validate(p)
			So(err, ShouldNotBeNil)
		})

		Convey("Then overly long URLs are rejected", func() {
			p.ProjectURL = "https://example.com/" + strings.Repeat("a", 200)
			_, err := repository.Validate(p)
			So(err.Error(), ShouldContainSubstring, "project_url")
		})
	})
}
