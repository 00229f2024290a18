package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchAllIsolatesPerSourceFailure(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<rss></rss>"))
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	sources := []Source{
		{Name: "Good", Key: "good", FeedURL: good.URL},
		{Name: "Bad", Key: "bad", FeedURL: bad.URL},
	}

	results := FetchAll(context.Background(), sources)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	// 结果顺序与源列表一致
	if results[0].Source.Key != "good" || results[1].Source.Key != "bad" {
		t.Fatalf("result order does not match source order")
	}
	if results[0].Err != nil {
		t.Fatalf("good source should not fail: %v", results[0].Err)
	}
	if results[0].Body != "<rss></rss>" {
		t.Fatalf("good source body = %q", results[0].Body)
	}
	// 单源失败只标记自己，不影响整批返回
	if results[1].Err == nil {
		t.Fatalf("bad source should carry an error")
	}
	if results[1].Body != "" {
		t.Fatalf("failed source should have empty body")
	}
}

func TestFetchAllSetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	FetchAll(context.Background(), []Source{{Name: "S", Key: "s", FeedURL: srv.URL}})
	if gotUA != fetcherUserAgent {
		t.Fatalf("user agent = %q, want %q", gotUA, fetcherUserAgent)
	}
}
