package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"castgraph/backend/internal/export"
	"castgraph/backend/internal/graphview"
	"castgraph/backend/internal/naming"
	"castgraph/backend/internal/roster"
	"castgraph/backend/pkg/logger"
)

// Exporter writes chapter graphs to an external graph database.
type Exporter interface {
	ExportChapter(ctx context.Context, chapter int, g graphview.Graph) (*export.Result, error)
	ExportAll(ctx context.Context, store *roster.Store) ([]export.Result, error)
	CountChapter(ctx context.Context, chapter int) (nodes, edges int64, err error)
}

// Server wires the HTTP surface to the in-memory roster and the name generator.
type Server struct {
	store     *roster.Store
	suggester naming.Suggester
	exporter  Exporter
	logger    *zap.Logger
}

// NewServer creates the API server. exporter may be nil, which disables export.
func NewServer(store *roster.Store, suggester naming.Suggester, exporter Exporter) *Server {
	return &Server{
		store:     store,
		suggester: suggester,
		exporter:  exporter,
		logger:    logger.Named("api"),
	}
}

// Router builds the Gin engine. Paths outside /api are served from staticDir when it is set.
func (s *Server) Router(staticDir string) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(s.logger))
	router.Use(gin.Recovery())
	router.Use(cors())

	api := router.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/name/generate", s.generateName)

		chapters := api.Group("/chapters/:chapter")
		{
			chapters.GET("/characters", s.listCharacters)
			chapters.POST("/characters", s.addCharacter)
			chapters.PUT("/characters/:id/name", s.renameCharacter)
			chapters.POST("/characters/:id/characteristics", s.addCharacteristic)
			chapters.POST("/characters/:id/relationships", s.addRelationship)
			chapters.DELETE("/characters/:id", s.deleteCharacter)
			chapters.GET("/graph", s.chapterGraph)
			chapters.POST("/export", s.exportChapter)
			chapters.GET("/export", s.exportedChapter)
		}

		api.POST("/export", s.exportAll)
	}

	if staticDir != "" {
		files := http.FileServer(http.Dir(staticDir))
		router.NoRoute(gin.WrapH(files))
	}

	return router
}

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
