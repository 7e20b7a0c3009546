package httpresp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query               string
		page, limit, offset int
	}{
		{"", 1, 50, 0},
		{"?page=3&limit=20", 3, 20, 40},
		{"?page=-1&limit=999", 1, 50, 0},
		{"?page=abc&limit=0", 1, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil)

			page, limit, offset := PageParams(c, 50, 200)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.limit, limit)
			assert.Equal(t, tt.offset, offset)
		})
	}
}

func TestEmptyListsRenderAsArrays(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	List[string](c, nil)
	assert.JSONEq(t, `{"data":[],"total":0}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Page[int](c, nil, 2, 10, 13)
	assert.JSONEq(t, `{"data":[],"page":2,"limit":10,"total":13}`, w.Body.String())
}
