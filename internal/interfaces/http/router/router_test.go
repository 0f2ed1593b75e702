package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// routes mimics a handler package registrar: a prefix group with a
// couple of endpoints under it.
type routes struct {
	prefix string
	paths  []string
}

func (r *routes) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(r.prefix)
	for _, path := range r.paths {
		group.GET(path, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}
}

func get(engine *gin.Engine, path string) int {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code
}

func TestRouterMountsUnderDefaultVersion(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).
		Register(&routes{prefix: "/stocks", paths: []string{""}}).
		Setup()

	assert.Equal(t, http.StatusOK, get(engine, "/api/v1/stocks"))
	assert.Equal(t, http.StatusNotFound, get(engine, "/stocks"))
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	NewRouter(engine, WithAPIVersion("v2")).
		Register(&routes{prefix: "/products", paths: []string{""}}).
		Setup()

	assert.Equal(t, http.StatusOK, get(engine, "/api/v2/products"))
	assert.Equal(t, http.StatusNotFound, get(engine, "/api/v1/products"))
}

func TestRouterRegistersAllRegistrars(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).
		Register(&routes{prefix: "/products", paths: []string{"", "/:id"}}).
		Register(&routes{prefix: "/billings", paths: []string{""}}).
		Setup()

	assert.Equal(t, http.StatusOK, get(engine, "/api/v1/products"))
	assert.Equal(t, http.StatusOK, get(engine, "/api/v1/products/abc"))
	assert.Equal(t, http.StatusOK, get(engine, "/api/v1/billings"))
}

func TestRouterWithoutRegistrars(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).Setup()

	assert.Equal(t, http.StatusNotFound, get(engine, "/api/v1/anything"))
}
