package api

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mmcdole/dlserver/internal/catalog"
	"github.com/mmcdole/dlserver/internal/domain"
)

// Handler serves the library search API over a catalog provider.
type Handler struct {
	provider  catalog.Provider
	staticDir string
	logger    *slog.Logger
}

// NewHandler creates a handler. staticDir may be empty to disable static
// file serving.
func NewHandler(provider catalog.Provider, staticDir string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{provider: provider, staticDir: staticDir, logger: logger}
}

// NewRouter builds the gin engine with logging and request ids. Files in
// the static directory take precedence over the API routes.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(h.logger), gin.Recovery())
	if h.staticDir != "" {
		r.Use(h.serveStatic)
	}
	h.RegisterRoutes(r)
	r.NoRoute(notFound)
	return r
}

// RegisterRoutes wires the API endpoints.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/libraryList", h.libraryList)
	r.GET("/search", h.search)
	r.GET("/:title/:libraryName", h.searchText)
}

func (h *Handler) libraryList(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.LibraryNames())
}

// search returns JSON results. With neither parameter it lists library
// names as an HTML fragment.
func (h *Handler) search(c *gin.Context) {
	title := c.Query("title")
	libraryName := c.Query("libraryName")

	if title == "" && libraryName == "" {
		c.String(http.StatusOK, strings.Join(h.provider.LibraryNames(), "<br>"))
		return
	}

	results, err := h.provider.Search(c.Request.Context(), title, libraryName)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// searchText renders the first result's books as marked lines.
func (h *Handler) searchText(c *gin.Context) {
	title := c.Param("title")
	libraryName := c.Param("libraryName")

	results, err := h.provider.Search(c.Request.Context(), title, libraryName)
	if err != nil {
		h.fail(c, err)
		return
	}

	var b strings.Builder
	if len(results) > 0 {
		for _, book := range results[0].Booklist {
			b.WriteString(DescribeBook(book))
		}
	}
	c.String(http.StatusOK, b.String())
}

// DescribeBook renders one book as " ✓  title<br>" or " ✖  title<br>".
func DescribeBook(book domain.Book) string {
	return " " + book.AvailabilityMark() + "  " + book.Title + "<br>"
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, domain.ErrLibraryNotFound) {
		status = http.StatusNotFound
	}
	h.logger.Error("search failed", "error", err, "status", status, "request_id", c.GetString(requestIDKey))
	c.JSON(status, gin.H{"message": err.Error()})
}

// serveStatic answers with a file from the static directory when one
// exists for the request path, otherwise passes to the routes.
func (h *Handler) serveStatic(c *gin.Context) {
	if file, ok := h.staticFile(c.Request); ok {
		c.File(file)
		c.Abort()
		return
	}
	c.Next()
}

func (h *Handler) staticFile(req *http.Request) (string, bool) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return "", false
	}
	rel := path.Clean("/" + req.URL.Path)
	if rel == "/" {
		rel = "/index.html"
	}
	file := filepath.Join(h.staticDir, filepath.FromSlash(rel))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", false
	}
	return file, true
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
}
