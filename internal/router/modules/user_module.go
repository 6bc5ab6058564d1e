package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/telecare/telecare-api/internal/container"
	handlers "github.com/telecare/telecare-api/internal/interface/http"
	"github.com/telecare/telecare-api/internal/interface/middleware"
)

// UserModule wires the user resource routes:
//
//	POST /api/users         create a user
//	GET  /api/users         list users, newest first
//	GET  /api/users/search  directory search (Elasticsearch)
//	GET  /api/users/:id     fetch one user
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	createLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil) // 30 req/min per IP
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)         // 300 req/min per IP

	rg.POST("/users", createLimiter, m.Handler.Create)
	rg.GET("/users", readLimiter, m.Handler.List)
	rg.GET("/users/search", readLimiter, m.Handler.Search)
	rg.GET("/users/:id", readLimiter, m.Handler.Get)
}
