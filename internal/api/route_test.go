package api

import (
	"ShareLens/internal/api/config"
	"ShareLens/internal/api/handler"
	"ShareLens/internal/model"
	"ShareLens/internal/pkg/cache"
	"ShareLens/internal/pkg/content"
	"ShareLens/internal/pkg/database"
	"ShareLens/internal/pkg/fixture"
	"ShareLens/internal/pkg/ratelimit"
	"ShareLens/internal/pkg/security"
	"ShareLens/internal/repository"
	"ShareLens/internal/service"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type knownContent map[uint64]*content.Info

func (k knownContent) Exists(_ context.Context, id uint64) (bool, error) {
	_, ok := k[id]
	return ok, nil
}

func (k knownContent) Lookup(_ context.Context, ids []uint64) (map[uint64]*content.Info, error) {
	result := make(map[uint64]*content.Info)
	for _, id := range ids {
		if info, ok := k[id]; ok {
			result[id] = info
		}
	}
	return result, nil
}

func (k knownContent) ResolveURL(_ context.Context, rawURL string) (uint64, error) {
	return content.IDFromURL(rawURL), nil
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	mr     *miniredis.Miniredis
	clock  *quartz.Mock
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, trustedProxies ...string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewGormDB(&config.DBConfig{
		Driver:      database.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "share.db") + "?_time_format=sqlite",
		MaxIdle:     1,
		MaxOpen:     1,
		MaxLifetime: 30,
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	clock := quartz.NewMock(t)
	clock.Set(time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC))

	resolver := knownContent{42: {ID: 42, Title: "Hello", URL: "https://example.com/42", Type: "post"}}
	demo, err := fixture.New(clock)
	require.NoError(t, err)

	eventRepo := repository.NewShareEventRepo(db)
	statRepo := repository.NewDailyStatRepo(db)
	rollupSvc := service.NewRollupService(eventRepo, statRepo)
	shareSvc := service.NewShareService(eventRepo, rollupSvc, ratelimit.NewRedisLimiter(rdb, time.Minute, 10), resolver, clock, service.ShareOptions{})
	analyticsSvc := service.NewAnalyticsService(
		service.NewStoreSource(eventRepo, statRepo),
		resolver,
		demo,
		demo,
		cache.NewQueryCache(cache.NewRedisStore(rdb)),
		clock,
		service.AnalyticsOptions{SchemaTTL: time.Hour, ResultTTL: 5 * time.Minute},
	)

	router := SetupRouter(&HandlersGroup{
		ShareHandler:     handler.NewShareHandler(shareSvc),
		AnalyticsHandler: handler.NewAnalyticsHandler(analyticsSvc, rollupSvc, clock),
	}, RouterOptions{
		TrustedProxies: trustedProxies,
		Policy:         security.NewTierPolicy(testSecret, []string{"pro"}, false),
		ExposeMetrics:  true,
	})
	return &testServer{router: router, db: db, mr: mr, clock: clock}
}

func (s *testServer) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func shareJSON(body string, ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/share", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = ip + ":40000"
	return req
}

func proToken(t *testing.T) string {
	t.Helper()
	token, err := security.GenerateToken(testSecret, "site-1", "pro", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestShareEndpoint_Accepts(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, shareJSON(`{"platform":"twitter","contentId":42}`, "203.0.113.5"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 200, env.Code)
	assert.JSONEq(t, `{"success":true,"platform":"twitter","count":1,"total":1,"contentId":42}`, string(env.Data))
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}

func TestShareEndpoint_AcceptsForm(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{"platform": {"email"}, "url": {"https://example.com/?p=42"}}
	req := httptest.NewRequest(http.MethodPost, "/api/share", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w, env := s.do(t, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"platform":"email","count":1,"total":1,"contentId":42}`, string(env.Data))
}

func TestShareEndpoint_MissingPlatform(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, shareJSON(`{"contentId":42}`, "203.0.113.5"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_data", env.Kind)

	var n int64
	require.NoError(t, s.db.Model(&model.ShareEvent{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestShareEndpoint_MalformedContentID(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, shareJSON(`{"platform":"twitter","contentId":"abc"}`, "203.0.113.5"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_data", env.Kind)
	assert.Equal(t, service.ErrParamInvalid.Error(), env.Message)

	w, env = s.do(t, shareJSON(`{"contentId":42}`, "203.0.113.5"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrMissingPlatform.Error(), env.Message)
}

func TestShareEndpoint_InvalidContent(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, shareJSON(`{"platform":"twitter","contentId":7}`, "203.0.113.5"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "invalid_content", env.Kind)
}

func TestShareEndpoint_RateLimited(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 10; i++ {
		w, _ := s.do(t, shareJSON(`{"platform":"twitter","contentId":42}`, "198.51.100.9"))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, env := s.do(t, shareJSON(`{"platform":"twitter","contentId":42}`, "198.51.100.9"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", env.Kind)

	w, _ = s.do(t, shareJSON(`{"platform":"twitter","contentId":42}`, "198.51.100.10"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestShareEndpoint_CallerHeaderIgnoredFromUntrustedClient(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 10; i++ {
		req := shareJSON(`{"platform":"twitter","contentId":42}`, "198.51.100.7")
		req.Header.Set("X-Share-Caller", fmt.Sprintf("visitor-%d", i))
		w, _ := s.do(t, req)
		require.Equal(t, http.StatusOK, w.Code, i)
	}

	req := shareJSON(`{"platform":"twitter","contentId":42}`, "198.51.100.7")
	req.Header.Set("X-Share-Caller", "visitor-10")
	w, env := s.do(t, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", env.Kind)
}

func TestShareEndpoint_CallerHeaderFromTrustedProxy(t *testing.T) {
	s := newTestServer(t, "10.0.0.0/8")

	// 代理后面的不同访客各自计数
	for i := 0; i < 12; i++ {
		req := shareJSON(`{"platform":"twitter","contentId":42}`, "10.1.2.3")
		req.Header.Set("X-Share-Caller", fmt.Sprintf("visitor-%d", i))
		w, _ := s.do(t, req)
		require.Equal(t, http.StatusOK, w.Code, i)
	}

	for i := 0; i < 9; i++ {
		req := shareJSON(`{"platform":"email","contentId":42}`, "10.1.2.3")
		req.Header.Set("X-Share-Caller", "visitor-0")
		w, _ := s.do(t, req)
		require.Equal(t, http.StatusOK, w.Code, i)
	}
	req := shareJSON(`{"platform":"email","contentId":42}`, "10.1.2.3")
	req.Header.Set("X-Share-Caller", "visitor-0")
	w, env := s.do(t, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", env.Kind)
}

func TestAnalyticsEndpoints_AccessPolicy(t *testing.T) {
	s := newTestServer(t)
	s.do(t, shareJSON(`{"platform":"twitter","contentId":42}`, "203.0.113.5"))
	s.clock.Advance(time.Minute)

	w, env := s.do(t, httptest.NewRequest(http.MethodGet, "/api/analytics/content?period=30", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var demo []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &demo))
	assert.Len(t, demo, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/content?period=30", nil)
	req.Header.Set("Authorization", proToken(t))
	w, env = s.do(t, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"contentId":42,"title":"Hello","url":"https://example.com/42","type":"post","totalShares":1,"distinctPlatformsUsed":1}]`, string(env.Data))
}

func TestAnalyticsEndpoints_InvalidPeriodDefaults(t *testing.T) {
	s := newTestServer(t)

	for _, q := range []string{"", "?period=abc", "?period=14"} {
		req := httptest.NewRequest(http.MethodGet, "/api/analytics/overview"+q, nil)
		req.Header.Set("Authorization", proToken(t))
		w, env := s.do(t, req)
		require.Equal(t, http.StatusOK, w.Code, q)

		var overview struct {
			Period       int   `json:"period"`
			TotalShares  int64 `json:"totalShares"`
			TopPlatforms []any `json:"topPlatforms"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &overview))
		assert.Equal(t, 30, overview.Period, q)
		assert.NotNil(t, overview.TopPlatforms, q)
	}
}

func TestAnalyticsEndpoints_EmptyPlatformsIsList(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/platforms?period=30", nil)
	req.Header.Set("Authorization", proToken(t))
	w, env := s.do(t, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRebuildEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, shareJSON(`{"platform":"twitter","contentId":42}`, "203.0.113.5"))

	w, env := s.do(t, httptest.NewRequest(http.MethodPost, "/api/analytics/rollups/rebuild?date=2025-03-14", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "unauthorized", env.Kind)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/rollups/rebuild?date=2025-03-14", nil)
	req.Header.Set("Authorization", proToken(t))
	w, env = s.do(t, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"date":"2025-03-14","platforms":["twitter"]}`, string(env.Data))

	req = httptest.NewRequest(http.MethodPost, "/api/analytics/rollups/rebuild?date=14-03-2025", nil)
	req.Header.Set("Authorization", proToken(t))
	w, env = s.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_data", env.Kind)
}

func TestPingPreflightAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", env.Message)

	req := httptest.NewRequest(http.MethodOptions, "/api/share", nil)
	req.Header.Set("Origin", "https://blog.example.com")
	w, _ = s.do(t, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://blog.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	s.do(t, shareJSON(`{"platform":"twitter","contentId":42}`, "203.0.113.5"))
	w, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "share_ingest_total")
	assert.Contains(t, w.Body.String(), "share_http_request_duration_seconds")
}
