package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Chandan72/ai-news-agent/internal/curator"
	"github.com/Chandan72/ai-news-agent/internal/storage"
	"github.com/gin-gonic/gin"
)

type stubStore struct {
	articles []storage.Article
	counts   map[string]int64
	meta     map[string]string
	listErr  error

	gotIndustry string
	gotLimit    int
	gotOffset   int
}

func (s *stubStore) ListArticles(industryName string, limit, offset int) ([]storage.Article, error) {
	s.gotIndustry, s.gotLimit, s.gotOffset = industryName, limit, offset
	return s.articles, s.listErr
}

func (s *stubStore) RecentByIndustry(industryName string, limit int) ([]storage.Article, error) {
	out := make([]storage.Article, 0)
	for _, a := range s.articles {
		if a.Industry != nil && *a.Industry == industryName {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubStore) CountsByIndustry() (map[string]int64, error) {
	return s.counts, nil
}

func (s *stubStore) GetMeta(key string) (string, error) {
	return s.meta[key], nil
}

type stubTrigger struct {
	result curator.Result
}

func (s *stubTrigger) Run(_ context.Context) curator.Result {
	return s.result
}

func newTestRouter(store Store, trig Trigger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewServer(store, trig).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("%s %s: response is not JSON: %v", method, path, err)
	}
	return w, body
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&stubStore{}, &stubTrigger{})
	w, body := doRequest(t, r, http.MethodGet, "/health")
	if w.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health = %d %v", w.Code, body)
	}
}

func TestListArticlesQueryParams(t *testing.T) {
	ind := "Cement"
	conf := 0.9
	now := time.Now().UTC()
	store := &stubStore{
		articles: []storage.Article{
			{ID: 1, Title: "A", URL: "https://example.com/a", Industry: &ind, Confidence: &conf, PublishedAt: &now},
		},
	}
	r := newTestRouter(store, &stubTrigger{})

	w, body := doRequest(t, r, http.MethodGet, "/articles?industry=Cement&limit=7&offset=3")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if store.gotIndustry != "Cement" || store.gotLimit != 7 || store.gotOffset != 3 {
		t.Fatalf("query passthrough = (%q, %d, %d)", store.gotIndustry, store.gotLimit, store.gotOffset)
	}
	if body["count"].(float64) != 1 {
		t.Fatalf("count = %v, want 1", body["count"])
	}
	items := body["items"].([]any)
	first := items[0].(map[string]any)
	// 时间戳序列化为 ISO-8601 字符串
	if _, err := time.Parse(time.RFC3339, first["publishedAt"].(string)); err != nil {
		t.Fatalf("publishedAt not ISO-8601: %v", first["publishedAt"])
	}
}

func TestListArticlesBadParamsFallBack(t *testing.T) {
	store := &stubStore{}
	r := newTestRouter(store, &stubTrigger{})

	doRequest(t, r, http.MethodGet, "/articles?limit=-5&offset=abc")
	if store.gotLimit != 20 || store.gotOffset != 0 {
		t.Fatalf("bad params should fall back to defaults, got (%d, %d)", store.gotLimit, store.gotOffset)
	}
}

func TestListArticlesStoreErrorIs500(t *testing.T) {
	r := newTestRouter(&stubStore{listErr: errors.New("db down")}, &stubTrigger{})
	w, _ := doRequest(t, r, http.MethodGet, "/articles")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestIndustriesListsClosedSetPlusUncategorized(t *testing.T) {
	ind := "Cement"
	store := &stubStore{
		articles: []storage.Article{{ID: 1, Title: "A", URL: "u", Industry: &ind}},
		counts:   map[string]int64{"Cement": 3},
	}
	r := newTestRouter(store, &stubTrigger{})

	w, body := doRequest(t, r, http.MethodGet, "/industries")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	list := body["industries"].([]any)
	// 32 个闭集标签 + Uncategorized
	if len(list) != 33 {
		t.Fatalf("industries count = %d, want 33", len(list))
	}

	var cement map[string]any
	for _, it := range list {
		m := it.(map[string]any)
		if m["industry"] == "Cement" {
			cement = m
		}
		// 没有文章的行业也要出现，且 articles 为空数组而不是 null
		if m["articles"] == nil {
			t.Fatalf("industry %v has null articles", m["industry"])
		}
	}
	if cement == nil {
		t.Fatalf("Cement missing from /industries")
	}
	if cement["count"].(float64) != 3 {
		t.Fatalf("Cement count = %v, want 3", cement["count"])
	}
	if len(cement["articles"].([]any)) != 1 {
		t.Fatalf("Cement recent articles = %v", cement["articles"])
	}
}

func TestLastUpdatedNullBeforeFirstRun(t *testing.T) {
	r := newTestRouter(&stubStore{meta: map[string]string{}}, &stubTrigger{})
	w, body := doRequest(t, r, http.MethodGet, "/last_updated")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if v, ok := body["last_updated"]; !ok || v != nil {
		t.Fatalf("last_updated = %v, want null", v)
	}
}

func TestLastUpdatedReturnsWatermark(t *testing.T) {
	r := newTestRouter(&stubStore{
		meta: map[string]string{storage.MetaLastUpdated: "2025-03-10T10:00:00Z"},
	}, &stubTrigger{})
	_, body := doRequest(t, r, http.MethodGet, "/last_updated")
	if body["last_updated"] != "2025-03-10T10:00:00Z" {
		t.Fatalf("last_updated = %v", body["last_updated"])
	}
}

func TestTriggerReturnsCounts(t *testing.T) {
	r := newTestRouter(&stubStore{}, &stubTrigger{result: curator.Result{Fetched: 4, Inserted: 2}})
	w, body := doRequest(t, r, http.MethodPost, "/trigger")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["status"] != "ok" || body["fetched"].(float64) != 4 || body["inserted"].(float64) != 2 {
		t.Fatalf("trigger body = %v", body)
	}
}

func TestTriggerSkippedIsNotAnError(t *testing.T) {
	r := newTestRouter(&stubStore{}, &stubTrigger{result: curator.Result{Skipped: true}})
	w, body := doRequest(t, r, http.MethodPost, "/trigger")
	// 重入冲突返回 200 + skipped，而不是 5xx
	if w.Code != http.StatusOK || body["status"] != "skipped" {
		t.Fatalf("skipped trigger = %d %v", w.Code, body)
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware("https://news.example.com"))
	NewServer(&stubStore{}, &stubTrigger{}).RegisterRoutes(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/articles", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://news.example.com" {
		t.Fatalf("allow-origin = %q", got)
	}
}
