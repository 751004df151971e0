package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/qr-document-portal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// DocumentService is everything the portal asks of the document service.
type DocumentService interface {
	service.DocumentService
	service.EmployeeDirectory
	service.EmployeeVerifier
}

type RouterDeps struct {
	Docs           DocumentService
	Sessions       *service.SessionStore
	Links          service.Links
	Organization   service.Organization
	Metrics        *service.Metrics
	Logger         *slog.Logger
	MaxUploadBytes int64
}

// NewRouter wires every page and API route onto a gin engine.
func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(deps.Logger))
	router.SetHTMLTemplate(tmpl)
	if deps.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = deps.MaxUploadBytes
	}

	uploads := NewUploadHandler(deps.Sessions, deps.Logger)
	employees := NewEmployeeHandler(deps.Docs, deps.Sessions, deps.Links, deps.Organization, deps.Logger)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "QR Document Portal",
		})
	})
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	router.GET("/", uploads.Index)
	router.POST("/files", uploads.LimitBody(deps.MaxUploadBytes), uploads.SelectFiles)
	router.POST("/mode", uploads.ChooseMode)
	router.POST("/scan", uploads.Scan)
	router.POST("/capture", uploads.BeginCapture)
	router.POST("/employee", uploads.LimitBody(deps.MaxUploadBytes), uploads.SubmitEmployee)
	router.POST("/retry", uploads.Retry)
	router.POST("/reset", uploads.Reset)

	router.GET("/list", employees.List)
	router.GET("/verify/:employeeId", employees.Verify)

	api := router.Group("/api")
	{
		api.GET("/session", uploads.SessionJSON)
	}

	return router, nil
}

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
