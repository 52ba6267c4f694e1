package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"Shoppy-App/internal/domain/model"
)

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func respondValidationError(c *gin.Context, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"field":   ve.Field,
			"message": ve.Message,
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": "リクエストの形式が正しくありません: " + err.Error(),
	})
}

// respondError はユースケースのエラーをステータスコードに変換して返す
func respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": message + "が見つかりません",
		})
	case errors.Is(err, model.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": message + "の取得に失敗しました: " + err.Error(),
		})
	}
}
