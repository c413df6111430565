// Package response 提供统一的 HTTP JSON 响应格式与分页辅助
package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Body 统一响应结构
type Body struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Success 返回成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// SuccessWithMessage 返回带提示信息的成功响应
func SuccessWithMessage(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data, Message: message})
}

// Error 返回错误响应
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Body{Success: false, Error: message})
}

// Pagination 分页参数
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// PageMeta 分页响应元数据
type PageMeta struct {
	Total       int64 `json:"total"`
	Limit       int   `json:"limit"`
	Offset      int   `json:"offset"`
	Pages       int64 `json:"pages"`
	CurrentPage int   `json:"current_page"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// Page 分页响应体
type Page struct {
	Items      any      `json:"items"`
	Pagination PageMeta `json:"pagination"`
}

// ParsePagination 从查询参数解析 limit/offset，上限 100
func ParsePagination(c *gin.Context) Pagination {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// NewPage 构造分页响应
func NewPage(items any, total int64, p Pagination) Page {
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}

	return Page{
		Items: items,
		Pagination: PageMeta{
			Total:       total,
			Limit:       p.Limit,
			Offset:      p.Offset,
			Pages:       pages,
			CurrentPage: p.Offset/p.Limit + 1,
			HasNext:     int64(p.Offset+p.Limit) < total,
			HasPrev:     p.Offset > 0,
		},
	}
}
