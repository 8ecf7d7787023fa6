// Package apitest provides an in-memory marv server for tests and demos.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

// Op names a mutating endpoint for failure injection
type Op string

const (
	OpTag     Op = "tag"
	OpUntag   Op = "untag"
	OpComment Op = "comment"
	OpDelete  Op = "delete"
	OpFiles   Op = "files"
)

// Fileset is one fixture entry
type Fileset struct {
	ID       int64
	Name     string
	MD5      string
	Dirpath  string
	Type     string
	Size     int64
	EndTime  int64
	Tags     []string
	Comments []models.Comment
	Files    []models.File
	Deleted  bool
}

// Call records one mutating request the server accepted or rejected
type Call struct {
	Op        Op
	FilesetID string
	Label     string
	Status    int
}

// Server is an in-memory marv backend
type Server struct {
	mu       sync.Mutex
	sets     []*Fileset
	failures map[string]int
	calls    []Call
	engine   *gin.Engine
}

// NewServer creates a server over the given filesets
func NewServer(sets ...*Fileset) *Server {
	s := &Server{
		sets:     sets,
		failures: make(map[string]int),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.engine
}

// FailOn makes op on fileset id answer with status
func (s *Server) FailOn(op Op, id int64, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[failureKey(op, fmt.Sprint(id))] = status
}

// Calls returns the mutating requests received so far
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Fileset returns a copy of the fixture entry with id
func (s *Server) Fileset(id int64) (Fileset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fs := range s.sets {
		if fs.ID == id {
			cp := *fs
			cp.Tags = append([]string(nil), fs.Tags...)
			cp.Comments = append([]models.Comment(nil), fs.Comments...)
			return cp, true
		}
	}
	return Fileset{}, false
}

func failureKey(op Op, id string) string {
	return string(op) + ":" + id
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Next()
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID())

	api := r.Group("/marv/api")
	api.GET("/_webconfig", s.webConfig)
	api.GET("/_fileset-listing", s.listing)
	api.GET("/_fileset-summary", s.summary)
	api.GET("/_fileset-detail-by-md5/:id", s.detail)
	api.POST("/_tag", s.tag)
	api.POST("/_untag", s.untag)
	api.POST("/comment", s.comment)
	api.GET("/tag", s.tags)
	api.GET("/fileset/:id", s.fileset)
	api.GET("/fileset/:id/files", s.files)
	api.DELETE("/_fileset/:id", s.delete)
	return r
}

// find returns the live fileset with id or md5; callers hold mu
func (s *Server) find(key string) *Fileset {
	for _, fs := range s.sets {
		if fs.Deleted {
			continue
		}
		if fmt.Sprint(fs.ID) == key || fs.MD5 == key {
			return fs
		}
	}
	return nil
}

// record logs a mutating call and reports an injected failure status; callers hold mu
func (s *Server) record(op Op, id, label string) int {
	status := s.failures[failureKey(op, id)]
	if status == 0 {
		status = http.StatusOK
	}
	s.calls = append(s.calls, Call{Op: op, FilesetID: id, Label: label, Status: status})
	return status
}

func (s *Server) webConfig(c *gin.Context) {
	c.JSON(http.StatusOK, models.WebConfig{
		Filters: []models.FilterDefinition{
			{Name: "name", Title: "Name", Inputs: []models.FilterInput{{
				Key: "name", Name: "name", Title: "Name", ValueType: "string",
				Operators: []models.FilterOperator{models.OpEqual, models.OpLike},
			}}},
			{Name: "size", Title: "Size", Inputs: []models.FilterInput{{
				Key: "size", Name: "size", Title: "Size", ValueType: "filesize",
			}}},
			{Name: "tags", Title: "Tags", Inputs: []models.FilterInput{{
				Key: "tags", Name: "tags", Title: "Tags", ValueType: "sublist",
				Operators: []models.FilterOperator{models.OpHas, models.OpAny},
			}}},
		},
	})
}

func (s *Server) filtered(c *gin.Context) ([]*Fileset, bool) {
	var node models.FilterNode
	if raw := c.DefaultQuery("filter", "{}"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &node); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
			return nil, false
		}
	}

	var out []*Fileset
	for _, fs := range s.sets {
		if !fs.Deleted && Match(&node, fs) {
			out = append(out, fs)
		}
	}
	return out, true
}

func (s *Server) listing(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sets, ok := s.filtered(c)
	if !ok {
		return
	}
	rows := make([]gin.H, 0, len(sets))
	for _, fs := range sets {
		rows = append(rows, listingRow(fs))
	}
	c.JSON(http.StatusOK, gin.H{"sort": "endtime", "ascending": false, "rows": rows})
}

func listingRow(fs *Fileset) gin.H {
	tags := append([]string{}, fs.Tags...)
	sort.Strings(tags)
	return gin.H{
		"id": fs.ID,
		"columns": []gin.H{
			{"name": "name", "title": "Name", "formatter": "route",
				"value": gin.H{"route": "detail", "id": fs.MD5, "title": fs.Name}},
			{"name": "size", "title": "Size", "formatter": "size", "value": fs.Size},
			{"name": "endtime", "title": "End", "formatter": "date", "value": fs.EndTime},
			{"name": "tags", "title": "Tags", "formatter": "pill", "list": true, "value": tags},
			{"name": "comment_count", "title": "Comments", "formatter": "string", "value": len(fs.Comments)},
		},
	}
}

func (s *Server) summary(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sets, ok := s.filtered(c)
	if !ok {
		return
	}
	if len(sets) == 0 {
		c.JSON(http.StatusOK, gin.H{"widgets": []gin.H{}})
		return
	}
	var size int64
	for _, fs := range sets {
		size += fs.Size
	}
	c.JSON(http.StatusOK, gin.H{"widgets": []gin.H{{
		"type":  "table",
		"title": "Summary",
		"rows": []gin.H{{"id": 0, "columns": []gin.H{
			{"name": "count", "title": "Filesets", "formatter": "string", "value": len(sets)},
			{"name": "size", "title": "Total size", "formatter": "size", "value": size},
		}}},
	}}})
}

func (s *Server) detail(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fs := s.find(c.Param("id"))
	if fs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	tags := make([]models.Tag, len(fs.Tags))
	for i, t := range fs.Tags {
		tags[i] = models.Tag{ID: models.ID(fmt.Sprint(i + 1)), Label: t}
	}
	comments := append([]models.Comment{}, fs.Comments...)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":         fs.ID,
		"type":       fs.Type,
		"name":       fs.Name,
		"storage_id": 1,
		"comments":   comments,
		"tags":       tags,
		"widgets": []gin.H{
			{"type": "table", "title": "Files", "rows": fileRows(fs)},
			{"type": "map", "title": "Track", "coords": []float64{48.1, 11.6}},
		},
	}})
}

func fileRows(fs *Fileset) []gin.H {
	rows := make([]gin.H, 0, len(fs.Files))
	for _, f := range fs.Files {
		rows = append(rows, gin.H{"id": f.ID, "columns": []gin.H{
			{"name": "name", "title": "Name", "formatter": "link",
				"value": gin.H{"href": "/marv/download/" + f.MD5, "title": f.Name}},
			{"name": "size", "title": "Size", "formatter": "size", "value": f.Size},
		}})
	}
	return rows
}

type tagBody struct {
	FilesetID json.Number `json:"fileset_id"`
	TagLabel  string      `json:"tag_label"`
}

func (s *Server) bindTag(c *gin.Context, op Op) (*Fileset, string, bool) {
	var body tagBody
	if err := c.ShouldBindJSON(&body); err != nil || body.TagLabel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileset_id and tag_label required"})
		return nil, "", false
	}
	id := body.FilesetID.String()
	if status := s.record(op, id, body.TagLabel); status != http.StatusOK {
		c.JSON(status, gin.H{"error": "injected failure"})
		return nil, "", false
	}
	fs := s.find(id)
	if fs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown fileset"})
		return nil, "", false
	}
	return fs, body.TagLabel, true
}

func (s *Server) tag(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fs, label, ok := s.bindTag(c, OpTag)
	if !ok {
		return
	}
	if !slices.Contains(fs.Tags, label) {
		fs.Tags = append(fs.Tags, label)
	}
	c.JSON(http.StatusOK, gin.H{"label": label, "id": fs.ID})
}

func (s *Server) untag(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fs, label, ok := s.bindTag(c, OpUntag)
	if !ok {
		return
	}
	fs.Tags = slices.DeleteFunc(fs.Tags, func(t string) bool { return t == label })
	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) comment(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !strings.HasPrefix(c.ContentType(), "application/vnd.api+json") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "json:api required"})
		return
	}
	var doc struct {
		Data struct {
			Attributes struct {
				Text string `json:"text"`
			} `json:"attributes"`
			Relationships struct {
				Fileset struct {
					Data struct {
						ID json.Number `json:"id"`
					} `json:"data"`
				} `json:"fileset"`
			} `json:"relationships"`
		} `json:"data"`
	}
	if err := json.NewDecoder(c.Request.Body).Decode(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := doc.Data.Relationships.Fileset.Data.ID.String()
	if status := s.record(OpComment, id, ""); status != http.StatusOK {
		c.JSON(status, gin.H{"error": "injected failure"})
		return
	}
	fs := s.find(id)
	if fs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown fileset"})
		return
	}
	fs.Comments = append(fs.Comments, models.Comment{
		Author:    models.Author{Username: "anonymous"},
		Text:      doc.Data.Attributes.Text,
		Timestamp: time.Now().UnixMilli(),
	})
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"type": "comment", "id": len(fs.Comments)}})
}

func (s *Server) tags(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var labels []string
	for _, fs := range s.sets {
		for _, t := range fs.Tags {
			if !slices.Contains(labels, t) {
				labels = append(labels, t)
			}
		}
	}
	sort.Strings(labels)
	data := make([]gin.H, len(labels))
	for i, l := range labels {
		data[i] = gin.H{"type": "tag", "id": fmt.Sprint(i + 1), "attributes": gin.H{"label": l}}
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (s *Server) fileset(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fs := s.find(c.Param("id"))
	if fs == nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": []gin.H{{"detail": "not found"}}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"type": "fileset",
		"id":   fmt.Sprint(fs.ID),
		"attributes": gin.H{
			"name":    fs.Name,
			"md5":     fs.MD5,
			"dirpath": fs.Dirpath,
		},
	}})
}

func (s *Server) files(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	if status := s.failures[failureKey(OpFiles, id)]; status != 0 {
		c.JSON(status, gin.H{"error": "injected failure"})
		return
	}
	fs := s.find(id)
	if fs == nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": []gin.H{{"detail": "not found"}}})
		return
	}
	data := make([]gin.H, len(fs.Files))
	for i, f := range fs.Files {
		data[i] = gin.H{"type": "file", "id": f.ID, "attributes": gin.H{
			"name": f.Name,
			"md5":  f.MD5,
			"size": f.Size,
		}}
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (s *Server) delete(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	if status := s.record(OpDelete, id, ""); status != http.StatusOK {
		c.JSON(status, gin.H{"error": "injected failure"})
		return
	}
	fs := s.find(id)
	if fs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	fs.Deleted = true
	c.JSON(http.StatusOK, gin.H{})
}
