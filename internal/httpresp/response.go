package httpresp

import "github.com/gin-gonic/gin"

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

// Success wraps a payload under key with the success flag the marketplace
// frontend expects, e.g. {"success": true, "viewing": {...}}.
func Success(c *gin.Context, key string, data any) {
	c.JSON(200, gin.H{
		"success": true,
		key:       data,
	})
}

func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(200, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}
