package handler_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

const duneJSON = `{"title":"Dune","author":"Frank Herbert","isbn":"9780441013593","price":9.99}`

func TestBookHandler_DuneLifecycle(t *testing.T) {
	s := newTestServer(t)

	// 1. 新建，默认可借
	created := s.create(t, duneJSON)
	assert.NotZero(t, created.ID)
	assert.True(t, created.Available)
	require.NotNil(t, created.ISBN)
	assert.Equal(t, "9780441013593", *created.ISBN)
	path := fmt.Sprintf("/api/books/%d", created.ID)

	// 2. 设为不可借
	w := s.do(t, http.MethodPatch, path+"/availability?available=false", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[bookJSON](t, w).Available)

	// 3. 不在可借列表中
	w = s.do(t, http.MethodGet, "/api/books/available", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, titlesOf(decode[[]bookJSON](t, w)), "Dune")

	// 4. 删除
	w = s.do(t, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	// 5. 再查询404
	w = s.do(t, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ErrCodeBookNotFound, decode[errorJSON](t, w).Code)
}

func TestBookHandler_CreateBook(t *testing.T) {
	t.Run("可以显式指定不可借", func(t *testing.T) {
		s := newTestServer(t)
		b := s.create(t, `{"title":"Emma","author":"Jane Austen","available":false}`)
		assert.False(t, b.Available)
		assert.Nil(t, b.ISBN)
		assert.Nil(t, b.Price)
	})

	t.Run("空字符串不校验", func(t *testing.T) {
		s := newTestServer(t)
		b := s.create(t, `{"title":"","author":""}`)
		assert.Equal(t, "", b.Title)
	})

	t.Run("价格按两位小数保存并返回", func(t *testing.T) {
		s := newTestServer(t)
		b := s.create(t, `{"title":"Dune","author":"Frank Herbert","price":15.999}`)
		require.NotNil(t, b.Price)
		assert.Equal(t, 16.0, *b.Price)

		w := s.do(t, http.MethodGet, fmt.Sprintf("/api/books/%d", b.ID), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 16.0, *decode[bookJSON](t, w).Price)
	})

	t.Run("时间戳为RFC3339", func(t *testing.T) {
		s := newTestServer(t)
		b := s.create(t, duneJSON)
		created, err := time.Parse(time.RFC3339Nano, b.CreatedAt)
		require.NoError(t, err)
		updated, err := time.Parse(time.RFC3339Nano, b.UpdatedAt)
		require.NoError(t, err)
		assert.False(t, updated.Before(created))
	})

	tests := []struct {
		name string
		body string
	}{
		{"缺少title", `{"author":"Frank Herbert"}`},
		{"缺少author", `{"title":"Dune"}`},
		{"JSON格式错误", `{"title":`},
		{"price类型错误", `{"title":"Dune","author":"Frank Herbert","price":"cheap"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			w := s.do(t, http.MethodPost, "/api/books", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode[errorJSON](t, w)
			assert.Equal(t, apperrors.ErrCodeBindError, body.Code)
			assert.Equal(t, "参数格式错误", body.Message, "绑定细节只进日志")
		})
	}

	t.Run("ISBN重复返回409", func(t *testing.T) {
		s := newTestServer(t)
		s.create(t, duneJSON)

		w := s.do(t, http.MethodPost, "/api/books", `{"title":"Dune (reprint)","author":"Frank Herbert","isbn":"9780441013593"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apperrors.ErrCodeISBNDuplicate, decode[errorJSON](t, w).Code)
	})
}

func TestBookHandler_GetBook(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, duneJSON)

	t.Run("存在", func(t *testing.T) {
		w := s.do(t, http.MethodGet, fmt.Sprintf("/api/books/%d", created.ID), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, created, decode[bookJSON](t, w))
	})

	t.Run("不存在", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/books/9999", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	for _, id := range []string{"abc", "-1", "1.5"} {
		t.Run("非法ID "+id, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/books/"+id, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode[errorJSON](t, w)
			assert.Equal(t, apperrors.ErrCodeInvalidParams, body.Code)
			assert.Equal(t, "图书ID格式错误", body.Message)
		})
	}

	t.Run("按ISBN", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/books/isbn/9780441013593", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, created.ID, decode[bookJSON](t, w).ID)

		w = s.do(t, http.MethodGet, "/api/books/isbn/0000000000", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBookHandler_ListBooks(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/books", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String(), "空目录返回空数组")

	s.create(t, duneJSON)
	s.create(t, `{"title":"Emma","author":"Jane Austen"}`)

	w = s.do(t, http.MethodGet, "/api/books", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Dune", "Emma"}, titlesOf(decode[[]bookJSON](t, w)))
}

func TestBookHandler_ReplaceBook(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, `{"title":"Dune","author":"Frank Herbert","isbn":"9780441013593","price":9.99,"available":false}`)
	path := fmt.Sprintf("/api/books/%d", created.ID)

	t.Run("整体覆盖", func(t *testing.T) {
		w := s.do(t, http.MethodPut, path, `{"title":"Dune Messiah","author":"Frank Herbert","price":12}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		got := decode[bookJSON](t, w)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Dune Messiah", got.Title)
		assert.Nil(t, got.ISBN, "未传的isbn被清空")
		require.NotNil(t, got.Price)
		assert.Equal(t, 12.0, *got.Price)
		assert.True(t, got.Available, "未传available时为true")
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
	})

	t.Run("不存在", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/books/9999", `{"title":"x","author":"y"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("缺少字段", func(t *testing.T) {
		w := s.do(t, http.MethodPut, path, `{"title":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookHandler_DeleteBook(t *testing.T) {
	s := newTestServer(t)
	s.create(t, duneJSON)

	w := s.do(t, http.MethodDelete, "/api/books/9999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/books", "")
	assert.Len(t, decode[[]bookJSON](t, w), 1, "删除不存在的ID不影响目录")
}

func TestBookHandler_SearchBooks(t *testing.T) {
	s := newTestServer(t)
	s.create(t, `{"title":"The Great Escape","author":"Paul Brickhill"}`)
	s.create(t, `{"title":"Dune","author":"Frank Herbert"}`)
	s.create(t, `{"title":"Children of Dune","author":"Frank Herbert","available":false}`)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"作者忽略大小写", "?author=frank%20herbert", []string{"Dune", "Children of Dune"}},
		{"作者优先于书名", "?author=Paul%20Brickhill&title=dune", []string{"The Great Escape"}},
		{"书名包含", "?title=reat%20Esc", []string{"The Great Escape"}},
		{"书名忽略大小写", "?title=DUNE", []string{"Dune", "Children of Dune"}},
		{"作者加可借状态", "?author=Frank%20Herbert&available=false", []string{"Children of Dune"}},
		{"联合查询作者区分大小写", "?author=frank%20herbert&available=true", []string{}},
		{"没有条件返回全部", "", []string{"The Great Escape", "Dune", "Children of Dune"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/books/search"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.want, titlesOf(decode[[]bookJSON](t, w)))
		})
	}

	t.Run("available格式错误", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/books/search?author=x&available=maybe", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookHandler_ListAffordableBooks(t *testing.T) {
	s := newTestServer(t)
	s.create(t, `{"title":"Cheap","author":"A","price":10}`)
	s.create(t, `{"title":"Mid","author":"A","price":15.5}`)
	s.create(t, `{"title":"Edge","author":"A","price":20}`)
	s.create(t, `{"title":"Pricey","author":"A","price":20.01}`)
	s.create(t, `{"title":"Unpriced","author":"A"}`)

	w := s.do(t, http.MethodGet, "/api/books/affordable?max_price=20", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Cheap", "Mid", "Edge"}, titlesOf(decode[[]bookJSON](t, w)))

	for _, q := range []string{"", "?max_price=abc"} {
		w = s.do(t, http.MethodGet, "/api/books/affordable"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestBookHandler_UpdateAvailability(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, duneJSON)
	path := fmt.Sprintf("/api/books/%d/availability", created.ID)

	t.Run("缺少available", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("available格式错误", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, path+"?available=maybe", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("不存在", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/books/9999/availability?available=true", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("更新时间不回退", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, path+"?available=false", "")
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[bookJSON](t, w)

		before, err := time.Parse(time.RFC3339Nano, created.UpdatedAt)
		require.NoError(t, err)
		after, err := time.Parse(time.RFC3339Nano, got.UpdatedAt)
		require.NoError(t, err)
		assert.False(t, after.Before(before))
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
	})
}

func TestBookHandler_StorageFault(t *testing.T) {
	s := newTestServer(t)
	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := s.do(t, http.MethodGet, "/api/books", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode[errorJSON](t, w)
	assert.Equal(t, apperrors.ErrCodeDatabaseError, body.Code)
	assert.NotContains(t, body.Message, "sql", "底层错误不返回给客户端")
}
