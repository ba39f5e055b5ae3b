package resolve

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/anisan-cli/anibridge/config"
	"github.com/anisan-cli/anibridge/decoder"
	"github.com/anisan-cli/anibridge/source"
	. "github.com/smartystreets/goconvey/convey"
)

type countingDoer struct {
	calls atomic.Int32
	next  *http.Client
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls.Add(1)
	return d.next.Do(req)
}

var protectedHits atomic.Int32

func hostingServer() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/apivtwo/clock.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"links":[
			{"link":"https:\/\/cdn.example.com\/ep1_480.mp4","resolutionStr":"480p","mp4":true},
			{"link":"https://cdn.example.com/ep1/master","resolutionStr":"1080p","hls":true,"headers":{"Referer":"https://allmanga.to/"}},
			{"link":"https://cdn.example.com/ep1_1080.mp4","resolutionStr":"1080p","mp4":true}
		]}`)
	})
	mux.HandleFunc("/apivtwo/empty", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"links":[]}`)
	})

	mux.HandleFunc("/tools/abc", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/media/ep1.mp4", http.StatusFound)
	})
	mux.HandleFunc("/tools/guarded", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/protected/ep2.mp4", http.StatusFound)
	})
	mux.HandleFunc("/protected/ep2.mp4", func(w http.ResponseWriter, r *http.Request) {
		protectedHits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/tools/hop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/watch", http.StatusFound)
	})
	mux.HandleFunc("/tools/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte{0, 0, 0, 0x18})
	})
	mux.HandleFunc("/media/ep1.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte{0, 0, 0, 0x18})
	})

	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><body><video><source src="/v/ep_720.mp4"></video>
<script>var f = {file: "/v/ep_480.mp4"};</script></body></html>`)
	})
	mux.HandleFunc("/frame", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><body><iframe src="//mp4upload.com/embed-x.html"></iframe></body></html>`)
	})
	mux.HandleFunc("/nothing", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><body><p>Episode unavailable</p></body></html>`)
	})
	mux.HandleFunc("/master", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		_, _ = io.WriteString(w, "#EXTM3U\n#EXT-X-STREAM-INF:RESOLUTION=640x360\nlow.m3u8\n#EXT-X-STREAM-INF:RESOLUTION=1920x1080\nhigh.m3u8\n")
	})

	return httptest.NewServer(mux)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	srv := hostingServer()
	defer srv.Close()

	doer := &countingDoer{next: srv.Client()}
	router := New(config.Static{}, WithHTTPClient(doer), WithClockHosts("127.0.0.1"), WithToolsHosts())

	Convey("Given references that need no fetch", t, func() {
		doer.calls.Store(0)

		Convey("A direct-embed host passes through with its host as the type", func() {
			res, err := router.Resolve(ctx, "https://ok.ru/videoembed/123")
			So(err, ShouldBeNil)
			So(res.URL, ShouldEqual, "https://ok.ru/videoembed/123")
			So(res.Type, ShouldEqual, "ok.ru")
		})

		Convey("Obfuscated direct-embed references are decoded first", func() {
			res, err := router.Resolve(ctx, decoder.Encode("https://ok.ru/videoembed/9"))
			So(err, ShouldBeNil)
			So(res.Type, ShouldEqual, "ok.ru")
			So(res.URL, ShouldEqual, "https://ok.ru/videoembed/9")
		})

		Convey("Direct media files are returned as is", func() {
			res, err := router.Resolve(ctx, "cdn.example.com/ep1.m3u8")
			So(err, ShouldBeNil)
			So(res.URL, ShouldEqual, "https://cdn.example.com/ep1.m3u8")
			So(res.Type, ShouldEqual, TypeDirect)
		})

		Convey("Corrupted and malformed references are rejected", func() {
			_, err := router.Resolve(ctx, "https://x.com/a\nb")
			var f *Failure
			So(errors.As(err, &f), ShouldBeTrue)
			So(f.Reason, ShouldEqual, ReasonCorrupted)

			_, err = router.Resolve(ctx, "not a url")
			So(errors.As(err, &f), ShouldBeTrue)
			So(f.Reason, ShouldEqual, ReasonMalformed)
		})

		So(doer.calls.Load(), ShouldEqual, int32(0))
	})

	Convey("Given a clock endpoint", t, func() {
		Convey("The best link is selected and its headers kept", func() {
			res, err := router.Resolve(ctx, decoder.Encode(srv.URL+"/apivtwo/clock?id=1"))
			So(err, ShouldBeNil)
			So(res.URL, ShouldEqual, "https://cdn.example.com/ep1_1080.mp4")
			So(res.Type, ShouldEqual, "mp4")
			So(res.Quality, ShouldEqual, "1080p")
			So(res.Headers["Referer"], ShouldEqual, "https://allmanga.to")
			So(res.Headers["User-Agent"], ShouldNotBeEmpty)
		})

		Convey("An empty link list means no sources", func() {
			_, err := router.Resolve(ctx, srv.URL+"/apivtwo/empty")
			So(Response(nil, err).Error, ShouldEqual, NoSourcesMessage)
		})
	})

	Convey("Given a tools host", t, func() {
		tools := New(config.Static{}, WithHTTPClient(srv.Client()), WithClockHosts(), WithToolsHosts("127.0.0.1"))

		Convey("A redirect to a media file is returned without parsing", func() {
			res, err := tools.Resolve(ctx, srv.URL+"/tools/abc")
			So(err, ShouldBeNil)
			So(res.URL, ShouldEqual, srv.URL+"/media/ep1.mp4")
			So(res.Type, ShouldEqual, TypeDirect)
		})

		Convey("A redirect to a guarded media file is never fetched", func() {
			protectedHits.Store(0)
			res, err := tools.Resolve(ctx, srv.URL+"/tools/guarded")
			So(err, ShouldBeNil)
			So(res.URL, ShouldEqual, srv.URL+"/protected/ep2.mp4")
			So(res.Type, ShouldEqual, TypeDirect)
			So(protectedHits.Load(), ShouldEqual, int32(0))
		})

		Convey("A redirect to a page is followed and extracted", func() {
			res, err := tools.Resolve(ctx, srv.URL+"/tools/hop")
			So(err, ShouldBeNil)
			So(res.URL, ShouldEqual, srv.URL+"/v/ep_720.mp4")
		})

		Convey("A video content type counts as direct", func() {
			res, err := tools.Resolve(ctx, srv.URL+"/tools/stream")
			So(err, ShouldBeNil)
			So(res.URL, ShouldEqual, srv.URL+"/tools/stream")
		})

		Convey("A page body falls back to extraction", func() {
			res, err := tools.Resolve(ctx, srv.URL+"/watch")
			So(err, ShouldBeNil)
			So(res.URL, ShouldEqual, srv.URL+"/v/ep_720.mp4")
		})
	})

	Convey("Given generic hosting pages", t, func() {
		Convey("The best candidate wins and the page becomes the referer", func() {
			res, err := router.Resolve(ctx, srv.URL+"/watch")
			So(err, ShouldBeNil)
			So(res.URL, ShouldEqual, srv.URL+"/v/ep_720.mp4")
			So(res.Type, ShouldEqual, "mp4")
			So(res.Headers["Referer"], ShouldEqual, srv.URL+"/watch")
		})

		Convey("An embed iframe is surfaced for a follow-up pass", func() {
			res, err := router.Resolve(ctx, srv.URL+"/frame")
			So(err, ShouldBeNil)
			So(res.Type, ShouldEqual, TypeIframe)
			So(res.URL, ShouldEqual, "https://mp4upload.com/embed-x.html")
		})

		Convey("Manifests are parsed as playlists", func() {
			res, err := router.Resolve(ctx, srv.URL+"/master")
			So(err, ShouldBeNil)
			So(res.URL, ShouldEqual, srv.URL+"/high.m3u8")
			So(res.Quality, ShouldEqual, "1080p")
		})

		Convey("A page without candidates reports no sources", func() {
			res, err := router.Resolve(ctx, srv.URL+"/nothing")
			So(res, ShouldBeNil)
			out := Response(res, err)
			So(out.Success, ShouldBeFalse)
			So(out.Error, ShouldEqual, "no sources found")
		})

		Convey("Upstream errors are tagged", func() {
			_, err := router.Resolve(ctx, srv.URL+"/missing")
			var f *Failure
			So(errors.As(err, &f), ShouldBeTrue)
			So(f.Reason, ShouldEqual, ReasonUpstream)
			So(Response(nil, err).Error, ShouldContainSubstring, "404")
		})
	})

	Convey("ResolveFirst takes the first record that resolves", t, func() {
		res, err := router.ResolveFirst(ctx, []*source.Record{
			{Name: "Broken", URL: srv.URL + "/missing"},
			{Name: "ok.ru", URL: "https://ok.ru/videoembed/1", Kind: source.KindEmbed, Quality: "embed"},
		})
		So(err, ShouldBeNil)
		So(res.Type, ShouldEqual, "ok.ru")
		So(res.Quality, ShouldBeEmpty)

		_, err = router.ResolveFirst(ctx, nil)
		So(Response(nil, err).Error, ShouldEqual, NoSourcesMessage)

		res, err = router.ResolveFirst(ctx, []*source.Record{nil, {Name: "ok.ru", URL: "https://ok.ru/videoembed/2"}})
		So(err, ShouldBeNil)
		So(res.URL, ShouldEqual, "https://ok.ru/videoembed/2")

		_, err = router.ResolveRecord(ctx, nil)
		var f *Failure
		So(errors.As(err, &f), ShouldBeTrue)
		So(f.Reason, ShouldEqual, ReasonMalformed)
	})

	Convey("Response wraps successes", t, func() {
		out := Response(&source.Resolved{URL: "https://a.b/c.mp4", Type: TypeDirect}, nil)
		So(out.Success, ShouldBeTrue)
		So(out.PlayableURL, ShouldEqual, "https://a.b/c.mp4")
	})
}
