package cookie

import (
	"errors"
	"testing"

	"github.com/filmscout/filmscout/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

const domain = ".filman.cc"

func init() {
	filesystem.SetMemMapFs()
}

func TestNormalize(t *testing.T) {
	Convey("Given records with missing fields", t, func() {
		input := []Cookie{
			{Name: "PHPSESSID", Value: "abc"},
			{Name: "", Value: "orphan"},
			{Name: "remember", Value: ""},
			{Name: "cf_clearance", Value: "xyz", Domain: "filman.cc"},
		}

		Convey("Records without name or value are excluded", func() {
			out := Normalize(input, domain)
			So(Names(out), ShouldResemble, []string{"PHPSESSID", "cf_clearance"})
		})

		Convey("Missing domains get the default, present ones are kept", func() {
			out := Normalize(input, domain)
			So(out[0].Domain, ShouldEqual, domain)
			So(out[1].Domain, ShouldEqual, "filman.cc")
		})

		Convey("The input slice is not modified", func() {
			_ = Normalize(input, domain)
			So(input[0].Domain, ShouldBeEmpty)
			So(len(input), ShouldEqual, 4)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Parse", t, func() {
		Convey("a JSON list", func() {
			out, err := Parse([]byte(`[{"name":"a","value":"1"},{"name":"b","value":"2","domain":"x.cc"}]`), domain)
			So(err, ShouldBeNil)
			So(out, ShouldResemble, []Cookie{
				{Name: "a", Value: "1", Domain: domain},
				{Name: "b", Value: "2", Domain: "x.cc"},
			})
		})

		Convey("a JSON list behind a pasted label", func() {
			out, err := Parse([]byte("cookies:\n[{\"name\":\"a\",\"value\":\"1\"}]"), domain)
			So(err, ShouldBeNil)
			So(out, ShouldHaveLength, 1)
		})

		Convey("an empty JSON list", func() {
			out, err := Parse([]byte(`[]`), domain)
			So(err, ShouldBeNil)
			So(out, ShouldBeEmpty)
		})

		Convey("the cookies wrapper object", func() {
			out, err := Parse([]byte(`{"cookies":[{"name":"a","value":"1"},{"name":"","value":"2"}]}`), domain)
			So(err, ShouldBeNil)
			So(Names(out), ShouldResemble, []string{"a"})
		})

		Convey("a flat header string", func() {
			out, err := Parse([]byte("PHPSESSID=abc; remember=1;  broken ; x=a=b"), domain)
			So(err, ShouldBeNil)
			So(out, ShouldResemble, []Cookie{
				{Name: "PHPSESSID", Value: "abc", Domain: domain},
				{Name: "remember", Value: "1", Domain: domain},
				{Name: "x", Value: "a=b", Domain: domain},
			})
		})

		Convey("Netscape cookie-jar text", func() {
			jar := "# Netscape HTTP Cookie File\n" +
				".filman.cc\tTRUE\t/\tTRUE\t0\tPHPSESSID\tabc\n" +
				"#HttpOnly_.filman.cc\tTRUE\t/\tTRUE\t0\tremember\t1\n" +
				"short\tline\n"
			out, err := Parse([]byte(jar), domain)
			So(err, ShouldBeNil)
			So(out, ShouldResemble, []Cookie{
				{Name: "PHPSESSID", Value: "abc", Domain: ".filman.cc"},
				{Name: "remember", Value: "1", Domain: ".filman.cc"},
			})
		})

		Convey("extension exports are rejected with a hint", func() {
			_, err := Parse([]byte(`{"url":"https://filman.cc","data":"..."}`), domain)
			So(errors.Is(err, ErrUnsupportedFormat), ShouldBeTrue)
		})

		Convey("garbage is rejected", func() {
			_, err := Parse([]byte("hello"), domain)
			So(err, ShouldEqual, ErrUnsupportedFormat)

			_, err = Parse([]byte("   "), domain)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Header renders the flat form", t, func() {
		So(Header([]Cookie{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}), ShouldEqual, "a=1; b=2")
	})
}

func TestStore(t *testing.T) {
	Convey("Given an empty sidecar", t, func() {
		store := NewStore("/config/cookies-test.json")

		Convey("Load returns nothing", func() {
			out, err := store.Load()
			So(err, ShouldBeNil)
			So(out, ShouldBeEmpty)
		})

		Convey("Saved cookies are loaded back in order", func() {
			saved := []Cookie{{Name: "b", Value: "2", Domain: domain}, {Name: "a", Value: "1", Domain: domain}}
			So(store.Save(saved), ShouldBeNil)

			out, err := NewStore("/config/cookies-test.json").Load()
			So(err, ShouldBeNil)
			So(out, ShouldResemble, saved)

			Convey("and forgetting clears them", func() {
				So(store.Forget(), ShouldBeNil)
				out, err := store.Load()
				So(err, ShouldBeNil)
				So(out, ShouldBeEmpty)
				So(store.Forget(), ShouldBeNil)
			})

			Convey("and the sidecar file is itself an injectable payload", func() {
				data := lo.Must(filesystem.API().ReadFile(store.Path()))
				So(string(data), ShouldContainSubstring, `"cookies"`)
				So(string(data), ShouldNotContainSubstring, "Internal")

				parsed, err := Parse(data, domain)
				So(err, ShouldBeNil)
				So(parsed, ShouldResemble, saved)
			})
		})

		Convey("A hand written cookie list is loaded too", func() {
			So(filesystem.API().WriteFile(store.Path(), []byte(`[{"name":"PHPSESSID","value":"abc"}]`), 0600), ShouldBeNil)

			out, err := store.Load()
			So(err, ShouldBeNil)
			So(out, ShouldHaveLength, 1)
			So(out[0].Name, ShouldEqual, "PHPSESSID")
		})
	})
}
