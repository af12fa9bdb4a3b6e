package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"castgraph/backend/internal/graphview"
	"castgraph/backend/internal/naming"
	"castgraph/backend/internal/roster"
	apperrors "castgraph/backend/pkg/errors"
)

type historyEntry struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

type relationshipEntry struct {
	To          string `json:"to"`
	Description string `json:"description"`
}

type generateNameRequest struct {
	Histories       []historyEntry      `json:"histories" binding:"required,dive"`
	Characteristics []string            `json:"characteristics" binding:"required"`
	Relationships   []relationshipEntry `json:"relationships" binding:"required,dive"`
}

func (r generateNameRequest) toNaming() naming.Request {
	req := naming.Request{
		Histories:       make([]naming.Message, 0, len(r.Histories)),
		Characteristics: r.Characteristics,
		Relationships:   make([]naming.RelationshipHint, 0, len(r.Relationships)),
	}
	for _, h := range r.Histories {
		req.Histories = append(req.Histories, naming.Message{Role: naming.Role(h.Role), Content: h.Content})
	}
	for _, rel := range r.Relationships {
		req.Relationships = append(req.Relationships, naming.RelationshipHint{To: rel.To, Description: rel.Description})
	}
	return req
}

func (s *Server) generateName(c *gin.Context) {
	var req generateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, err := s.suggester.Suggest(c.Request.Context(), req.toNaming())
	if err != nil {
		if errors.Is(err, apperrors.ErrNamingNoChoice) {
			c.String(http.StatusInternalServerError, "OpenAI returned no choice")
			return
		}
		s.logger.Error("Failed to generate name", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to request OpenAI")
		return
	}

	c.String(http.StatusOK, content)
}

// chapterParam parses the :chapter path segment; chapters are non-negative.
func chapterParam(c *gin.Context) (int, bool) {
	chapter, err := strconv.Atoi(c.Param("chapter"))
	if err != nil || chapter < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter"})
		return 0, false
	}
	return chapter, true
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid character id"})
		return 0, false
	}
	return id, true
}

func (s *Server) listCharacters(c *gin.Context) {
	chapter, ok := chapterParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.store.List(chapter))
}

func (s *Server) addCharacter(c *gin.Context) {
	chapter, ok := chapterParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, s.store.Add(chapter))
}

// Edits against ids that are not in the chapter are accepted and ignored.
func (s *Server) modify(c *gin.Context, transform roster.Transform) {
	chapter, ok := chapterParam(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.store.Modify(chapter, roster.ID(id), transform)
	c.Status(http.StatusNoContent)
}

func (s *Server) renameCharacter(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.modify(c, func(ch roster.Character) roster.Character { return ch.WithName(req.Name) })
}

func (s *Server) addCharacteristic(c *gin.Context) {
	var req struct {
		Characteristic string `json:"characteristic" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.modify(c, func(ch roster.Character) roster.Character { return ch.WithCharacteristic(req.Characteristic) })
}

func (s *Server) addRelationship(c *gin.Context) {
	var req struct {
		ToID        *int   `json:"toId" binding:"required"`
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rel := roster.Relationship{ToID: *req.ToID, Description: req.Description}
	s.modify(c, func(ch roster.Character) roster.Character { return ch.WithRelationship(rel) })
}

func (s *Server) deleteCharacter(c *gin.Context) {
	chapter, ok := chapterParam(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.store.Delete(chapter, roster.ID(id))
	c.Status(http.StatusNoContent)
}

func (s *Server) chapterGraph(c *gin.Context) {
	chapter, ok := chapterParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, graphview.Project(s.store.List(chapter)))
}

func (s *Server) exportChapter(c *gin.Context) {
	chapter, ok := chapterParam(c)
	if !ok {
		return
	}
	if s.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": apperrors.ErrGraphExportDisabled.Message})
		return
	}

	result, err := s.exporter.ExportChapter(c.Request.Context(), chapter, graphview.Project(s.store.List(chapter)))
	if err != nil {
		s.logger.Error("Failed to export chapter", zap.Int("chapter", chapter), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to export chapter"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// exportedChapter reports what the database currently holds for a chapter.
func (s *Server) exportedChapter(c *gin.Context) {
	chapter, ok := chapterParam(c)
	if !ok {
		return
	}
	if s.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": apperrors.ErrGraphExportDisabled.Message})
		return
	}

	nodes, edges, err := s.exporter.CountChapter(c.Request.Context(), chapter)
	if err != nil {
		s.logger.Error("Failed to read exported chapter", zap.Int("chapter", chapter), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to read exported chapter"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapter": chapter, "nodes": nodes, "edges": edges})
}

func (s *Server) exportAll(c *gin.Context) {
	if s.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": apperrors.ErrGraphExportDisabled.Message})
		return
	}

	results, err := s.exporter.ExportAll(c.Request.Context(), s.store)
	if err != nil {
		s.logger.Error("Failed to export chapters", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to export chapters"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapters": results})
}
