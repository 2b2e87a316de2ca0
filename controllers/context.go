package controllers

import (
	"github.com/gin-gonic/gin"
)

func getCurrentUserID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		}
	}
	return 0, false
}

func getCurrentRoleID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("roleID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		}
	}
	return 0, false
}

func getCurrentEmail(c *gin.Context) (string, bool) {
	if v, ok := c.Get("email"); ok {
		if email, ok := v.(string); ok && email != "" {
			return email, true
		}
	}
	return "", false
}
