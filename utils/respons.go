package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type PageMeta struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Count int `json:"count"`
}

type PagedData struct {
	Items interface{} `json:"items"`
	Meta  PageMeta    `json:"meta"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

func RespondPage(c *gin.Context, message string, items interface{}, page, size, count int) {
	RespondJSON(c, 200, message, PagedData{
		Items: items,
		Meta:  PageMeta{Page: page, Size: size, Count: count},
	})
}
