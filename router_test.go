package ginblog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type greetingController struct {
	middleware gin.HandlerFunc
}

func (g greetingController) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/hello", Handler: func(c *gin.Context) {
			c.String(http.StatusOK, "hello")
		}},
		{Method: http.MethodPost, Path: "/hello/:name", Handler: func(c *gin.Context) {
			c.String(http.StatusCreated, "hello "+c.Param("name")+" "+c.GetString("by"))
		}, Middleware: []gin.HandlerFunc{g.middleware}},
	}
}

func TestRegisterControllers(t *testing.T) {
	server := newTestServer()
	server.RegisterControllers(greetingController{middleware: func(c *gin.Context) {
		c.Set("by", "middleware")
		c.Next()
	}})

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/hello", http.StatusOK, "hello"},
		{http.MethodPost, "/hello/ada", http.StatusCreated, "hello ada middleware"},
		{http.MethodGet, "/hello/ada", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.Engine().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestRegisterControllers_MiddlewareCanAbort(t *testing.T) {
	server := newTestServer()
	server.RegisterControllers(greetingController{middleware: func(c *gin.Context) {
		SendError(c, ErrForbidden)
	}})

	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hello/ada", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}
