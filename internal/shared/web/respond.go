// Package web — общий формат ответов API:
// успех  {"success": true, ...}
// ошибка {"success": false, "message": "..."}
package web

import "github.com/gin-gonic/gin"

// OK отправляет успешный ответ, добавляя success: true
func OK(c *gin.Context, status int, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["success"] = true
	c.JSON(status, data)
}

// Fail отправляет ошибку в стандартном конверте
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
