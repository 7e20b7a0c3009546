package httpresp

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// PageResponse é a lista paginada; Total conta todos os registros do filtro.
type PageResponse[T any] struct {
	Data  []T   `json:"data"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

func Page[T any](c *gin.Context, data []T, page, limit int, total int64) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, PageResponse[T]{
		Data:  data,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// PageParams lê ?page e ?limit; valores fora da faixa voltam ao padrão.
func PageParams(c *gin.Context, defaultLimit, maxLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.Query("limit"))
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}

	return page, limit, (page - 1) * limit
}
