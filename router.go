package ginblog

import "github.com/gin-gonic/gin"

type Route struct {
	Method     string
	Path       string
	Handler    gin.HandlerFunc
	Middleware []gin.HandlerFunc
}

type Controller interface {
	Routes() []Route
}

func (s *Server) RegisterControllers(controllers ...Controller) {
	for _, controller := range controllers {
		for _, route := range controller.Routes() {
			handlers := append([]gin.HandlerFunc{}, route.Middleware...)
			handlers = append(handlers, route.Handler)
			s.engine.Handle(route.Method, route.Path, handlers...)
		}
	}
}
