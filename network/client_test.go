package network

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	Convey("Given a new client", t, func() {
		client := NewClient(10 * time.Second)

		Convey("Then it should carry the timeout and a cookie jar", func() {
			So(client.Timeout, ShouldEqual, 10*time.Second)
			So(client.Jar, ShouldNotBeNil)
		})

		Convey("When the server sets a cookie", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if c, err := r.Cookie("csrftoken"); err == nil {
					_, _ = w.Write([]byte(c.Value))
					return
				}
				http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "abc", Path: "/"})
			}))
			Reset(server.Close)

			resp, err := client.Get(server.URL)
			So(err, ShouldBeNil)
			_ = resp.Body.Close()

			Convey("Then it should be sent back on the next request", func() {
				resp, err := client.Get(server.URL)
				So(err, ShouldBeNil)
				defer resp.Body.Close()

				buf := make([]byte, 3)
				n, _ := resp.Body.Read(buf)
				So(string(buf[:n]), ShouldEqual, "abc")
			})
		})
	})
}
