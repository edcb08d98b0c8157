package httpapi

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestServe(t *testing.T) {
	Convey("Serve stops when its context is done", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)

		go func() {
			done <- Serve(ctx, "127.0.0.1:0", NewHandler(&fakeEngine{}, ".filman.cc"))
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			So(err, ShouldBeNil)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
	})
}
