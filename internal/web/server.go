package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func NewEngine(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	h.RegisterRoutes(r)
	return r
}

func NewServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewEngine(h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
