package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/orm"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/router"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

func init() {
	metrics.InitMetrics()
}

// testServer 真实组装的服务，存储为内存sqlite
type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithPinger(t, nil)
}

func newTestServerWithPinger(t *testing.T, pinger handler.Pinger) *testServer {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		},
	}
	db, cleanup, err := orm.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	logger := zap.NewNop()
	tx := orm.NewTxManager(db)
	svc := book.NewService(orm.NewBookRepository(db), tx, nil, logger)
	books := handler.NewBookHandler(svc, appbook.NewReplaceBookUseCase(svc, tx), appbook.NewSearchBooksUseCase(svc), logger)

	if pinger == nil {
		pinger = orm.NewPinger(db)
	}
	health := handler.NewHealthHandler(pinger, logger)

	engine := router.New(router.Options{Mode: gin.TestMode}, logger, health, books)
	return &testServer{engine: engine, db: db}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// bookJSON 响应中的图书
type bookJSON struct {
	ID        uint     `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	ISBN      *string  `json:"isbn"`
	Price     *float64 `json:"price"`
	Available bool     `json:"available"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

type errorJSON struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) create(t *testing.T, body string) bookJSON {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/books", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[bookJSON](t, w)
}

func titlesOf(books []bookJSON) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

// failingPinger 模拟数据库不可用
type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return context.DeadlineExceeded }
