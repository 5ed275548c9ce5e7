package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zenflow/internal/model"
	"zenflow/internal/projector"
	"zenflow/internal/session"
	"zenflow/internal/statusutil"
)

// mutationResponse is the body of every POST/PUT. Changed is false when the
// interaction was valid but had no effect.
type mutationResponse struct {
	Changed bool                `json:"changed"`
	Message string              `json:"message,omitempty"`
	Tasks   []model.Task        `json:"tasks,omitempty"`
	Nodes   []model.DiagramNode `json:"nodes,omitempty"`
	Edges   []model.DiagramEdge `json:"edges,omitempty"`
}

func errorJSON(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

func respond(c *gin.Context, res session.Result) {
	if res.NotFound {
		errorJSON(c, http.StatusNotFound, "not found")
		return
	}
	c.JSON(http.StatusOK, mutationResponse{
		Changed: res.Changed && res.Err == nil,
		Message: res.Message,
		Tasks:   res.Tasks,
		Nodes:   res.Nodes,
		Edges:   res.Edges,
	})
}

func (s *Server) handleTasks(c *gin.Context) {
	c.JSON(http.StatusOK, s.read(func(sess *session.Session) any { return sess.Tasks() }))
}

func (s *Server) handleKanban(c *gin.Context) {
	c.JSON(http.StatusOK, s.read(func(sess *session.Session) any { return sess.Kanban() }))
}

func (s *Server) handleGantt(c *gin.Context) {
	c.JSON(http.StatusOK, s.read(func(sess *session.Session) any { return sess.Gantt() }))
}

func (s *Server) handleDoctor(c *gin.Context) {
	c.JSON(http.StatusOK, s.read(func(sess *session.Session) any {
		return gin.H{"mismatches": sess.Doctor()}
	}))
}

// handleList projects the forest with a filter taken from the query string. The
// session's own filter is left alone.
func (s *Server) handleList(c *gin.Context) {
	f, err := parseListFilter(c)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, s.read(func(sess *session.Session) any {
		return projector.BuildList(sess.Tasks(), f)
	}))
}

func parseListFilter(c *gin.Context) (projector.ListFilter, error) {
	var f projector.ListFilter
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		st, err := statusutil.ParseStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}
	if v := strings.TrimSpace(c.Query("priority")); v != "" {
		p, err := statusutil.ParsePriority(v)
		if err != nil {
			return f, err
		}
		f.Priority = &p
	}
	if v, ok := c.GetQuery("sprint"); ok && v != "" {
		f.Sprint = &v
	}
	f.Search = c.Query("q")
	return f, nil
}

// graphView maps a :graph path segment to the view that owns the graph.
func graphView(name string) (model.ViewType, bool) {
	v, err := statusutil.ParseView(name)
	if err != nil {
		return "", false
	}
	if v != model.ViewMindMap && v != model.ViewFlowchart {
		return "", false
	}
	return v, true
}

func (s *Server) handleGraph(c *gin.Context) {
	v, ok := graphView(c.Param("graph"))
	if !ok {
		errorJSON(c, http.StatusNotFound, "unknown graph")
		return
	}
	c.JSON(http.StatusOK, s.read(func(sess *session.Session) any {
		d, _ := sess.Diagram(v)
		return d
	}))
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) handleSetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	st, err := statusutil.ParseStatus(req.Status)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	respond(c, s.dispatch(c.Request.Context(), session.DropTask{TaskID: c.Param("id"), Column: st}))
}

func (s *Server) handleToggle(c *gin.Context) {
	respond(c, s.dispatch(c.Request.Context(), session.ToggleTask{TaskID: c.Param("id")}))
}

type moveRequest struct {
	Dir int `json:"dir"`
}

func (s *Server) handleMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	respond(c, s.dispatch(c.Request.Context(), session.MoveTask{TaskID: c.Param("id"), Dir: req.Dir}))
}

func (s *Server) handleDecompose(c *gin.Context) {
	respond(c, s.dispatch(c.Request.Context(), session.DecomposeTask{TaskID: c.Param("id")}))
}

// handleEditTask replaces a task's editable fields. The path id wins over the body.
func (s *Server) handleEditTask(c *gin.Context) {
	var t model.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	t.ID = c.Param("id")
	respond(c, s.dispatch(c.Request.Context(), session.EditTask{Task: t}))
}

type promoteRequest struct {
	Level string `json:"level"`
}

func (s *Server) handlePromote(c *gin.Context) {
	var req promoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	level := model.LevelTask
	if strings.TrimSpace(req.Level) != "" {
		l, err := statusutil.ParseLevel(req.Level)
		if err != nil {
			errorJSON(c, http.StatusBadRequest, err.Error())
			return
		}
		level = l
	}
	respond(c, s.dispatch(c.Request.Context(), session.PromoteNode{NodeID: c.Param("id"), Level: level}))
}

func (s *Server) handleExpand(c *gin.Context) {
	respond(c, s.dispatch(c.Request.Context(), session.ExpandNode{NodeID: c.Param("id")}))
}

type connectRequest struct {
	Source string `json:"source" binding:"required"`
	Target string `json:"target" binding:"required"`
}

func (s *Server) handleConnect(c *gin.Context) {
	v, ok := graphView(c.Param("graph"))
	if !ok {
		errorJSON(c, http.StatusNotFound, "unknown graph")
		return
	}
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	respond(c, s.dispatch(c.Request.Context(), session.Connect{Graph: v, Source: req.Source, Target: req.Target}))
}

type quickEntryRequest struct {
	Text         string `json:"text" binding:"required"`
	ParentNodeID string `json:"parentNodeId"`
	// View is the view the entry is made from; it decides whether a mind map node
	// is created. Defaults to list.
	View string `json:"view"`
}

// handleQuickEntry runs the whole quick-entry flow for one request: target the view,
// open the entry, submit the text and wait for the parse.
func (s *Server) handleQuickEntry(c *gin.Context) {
	var req quickEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	view := model.ViewList
	if req.ParentNodeID != "" {
		view = model.ViewMindMap
	} else if strings.TrimSpace(req.View) != "" {
		v, err := statusutil.ParseView(req.View)
		if err != nil {
			errorJSON(c, http.StatusBadRequest, err.Error())
			return
		}
		view = v
	}

	var open session.Command = session.OpenQuickEntry{}
	if req.ParentNodeID != "" {
		open = session.AddChild{ParentNodeID: req.ParentNodeID}
	}
	respond(c, s.dispatch(c.Request.Context(),
		session.SetView{View: view},
		open,
		session.SubmitQuickEntry{Text: req.Text},
	))
}
