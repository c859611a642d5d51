package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"hugo/internal/culture"
	"hugo/internal/logger"
	"hugo/internal/personality"
	"hugo/internal/service"
	"hugo/internal/session"
	"hugo/internal/store"
	"hugo/internal/store/eventlog"

	"github.com/gin-gonic/gin"
)

// Router mounts the /api routes.
type Router struct {
	svc *service.Service
}

func NewRouter(svc *service.Service) *Router {
	return &Router{svc: svc}
}

// Register mounts every route under group.
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/types", r.handleTypes)
	group.GET("/questions", r.handleQuestions)
	group.GET("/likert", r.handleLikertBattery)
	group.POST("/classify", r.handleClassify)
	group.POST("/likert", r.handleLikert)

	group.POST("/sessions", r.handleSessionCreate)
	group.GET("/sessions/:id", r.handleSessionGet)
	group.POST("/sessions/:id/input", r.handleSessionInput)

	group.GET("/profiles/:id", r.handleProfile)
	group.GET("/respondents/:id/profile", r.handleRespondentProfile)

	group.GET("/compatibility", r.handleCompatibility)
	group.POST("/teams/analyze", r.handleTeamAnalyze)
	group.POST("/teams/preview", r.handleTeamPreview)
	group.POST("/teams", r.handleTeamCreate)
	group.GET("/teams/:id", r.handleTeamGet)
	group.GET("/teams/:id/report", r.handleTeamReport)
	group.POST("/recommendations", r.handleRecommend)

	group.GET("/cultures", r.handleCultures)
	group.GET("/cultures/:code", r.handleCulture)
	group.GET("/events", r.handleEvents)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrStoreDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionComplete):
		return http.StatusConflict
	case service.IsInvalidInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (r *Router) fail(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("[api] %s failed ip=%s err=%v", op, c.ClientIP(), err)
	} else {
		logger.Debugf("[api] %s rejected ip=%s status=%d err=%v", op, c.ClientIP(), status, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (r *Router) lang(c *gin.Context) personality.Language {
	return r.svc.Language(c.Query("lang"))
}

func (r *Router) handleTypes(c *gin.Context) {
	lang := r.lang(c)
	out := make([]typeView, 0, len(personality.Types))
	for _, info := range personality.Catalog() {
		out = append(out, typeView{Code: info.Code, Dimension: info.Dimension, Name: info.Name.In(lang)})
	}
	c.JSON(http.StatusOK, gin.H{"language": lang, "types": out})
}

func (r *Router) handleQuestions(c *gin.Context) {
	lang := r.lang(c)
	bank := r.svc.Bank()
	dims := make([]questionView, 0, len(bank.DimensionQuestions))
	for _, q := range bank.DimensionQuestions {
		dims = append(dims, questionView{ID: q.ID, Text: q.Prompt(lang)})
	}
	types := make(map[personality.Dimension][]questionView, len(personality.Dimensions))
	for _, d := range personality.Dimensions {
		for _, q := range bank.TypeQuestionsFor(d) {
			types[d] = append(types[d], questionView{ID: q.ID, Text: q.Prompt(lang)})
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"language":            lang,
		"version":             bank.Version,
		"dimension_questions": dims,
		"type_questions":      types,
	})
}

func (r *Router) handleLikertBattery(c *gin.Context) {
	lang := r.lang(c)
	battery := r.svc.Bank().Likert
	scale := make([]scaleView, 0, len(battery.Scale))
	for _, p := range battery.Scale {
		scale = append(scale, scaleView{Value: p.Value, Label: p.Label.In(lang)})
	}
	statements := make([]questionView, 0, len(battery.Statements))
	for _, s := range battery.Statements {
		statements = append(statements, questionView{ID: s.ID, Text: s.Text.In(lang)})
	}
	c.JSON(http.StatusOK, gin.H{"language": lang, "scale": scale, "statements": statements})
}

func (r *Router) handleClassify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Errorf("[api] classify bind failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := r.svc.ClassifyText(c.Request.Context(), service.OpenTextRequest{
		Respondent:       req.respondent(),
		DimensionAnswers: req.DimensionAnswers,
		TypeAnswers:      req.TypeAnswers,
	})
	if err != nil {
		r.fail(c, "classify", err)
		return
	}
	logger.Infof("[api] classify ip=%s profile=%s type=%s", c.ClientIP(), view.Profile.ID, view.Profile.FinalType)
	c.JSON(http.StatusOK, view)
}

func (r *Router) handleLikert(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload, err := parseLikertPayload(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := r.svc.ScoreLikert(c.Request.Context(), service.LikertRequest{
		Respondent:   payload.respondent(),
		Answers:      payload.Answers,
		AllowPartial: payload.AllowPartial,
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadRequest {
			c.JSON(status, gin.H{"error": err.Error(), "progress": r.svc.LikertProgress(payload.Answers)})
			return
		}
		r.fail(c, "likert", err)
		return
	}
	logger.Infof("[api] likert ip=%s profile=%s type=%s", c.ClientIP(), view.Profile.ID, view.Profile.FinalType)
	c.JSON(http.StatusOK, view)
}

func (r *Router) handleSessionCreate(c *gin.Context) {
	var req sessionCreateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Language == "" {
		req.Language = c.Query("lang")
	}
	step, err := r.svc.StartSession(c.Request.Context(), req.Language)
	if err != nil {
		r.fail(c, "session create", err)
		return
	}
	c.JSON(http.StatusCreated, step)
}

func (r *Router) handleSessionGet(c *gin.Context) {
	step, err := r.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.fail(c, "session get", err)
		return
	}
	c.JSON(http.StatusOK, step)
}

func (r *Router) handleSessionInput(c *gin.Context) {
	var req sessionInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	step, err := r.svc.AdvanceSession(c.Request.Context(), id, req.Text)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadRequest || status == http.StatusConflict {
			c.JSON(status, gin.H{"error": err.Error(), "reply": step.Reply, "progress": step.Progress})
			return
		}
		r.fail(c, "session input", err)
		return
	}
	c.JSON(http.StatusOK, step)
}

func (r *Router) handleProfile(c *gin.Context) {
	view, err := r.svc.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.fail(c, "profile get", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (r *Router) handleRespondentProfile(c *gin.Context) {
	view, err := r.svc.LatestProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.fail(c, "respondent profile", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (r *Router) handleCompatibility(c *gin.Context) {
	res, err := r.svc.Compatibility(c.Query("a"), c.Query("b"))
	if err != nil {
		r.fail(c, "compatibility", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (r *Router) handleTeamAnalyze(c *gin.Context) {
	var req teamTypesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := r.svc.AnalyzeTeam(c.Request.Context(), req.Types)
	if err != nil {
		r.fail(c, "team analyze", err)
		return
	}
	logger.Infof("[api] team analyze ip=%s team=%s synergy=%.2f cached=%t", c.ClientIP(), res.Fingerprint, res.Report.SynergyScore, res.Cached)
	c.JSON(http.StatusOK, res)
}

func (r *Router) handleTeamPreview(c *gin.Context) {
	var req teamTypesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	preview, err := r.svc.PreviewTeam(req.Types, req.Mode)
	if err != nil {
		r.fail(c, "team preview", err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (r *Router) handleTeamCreate(c *gin.Context) {
	var req service.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := r.svc.CreateTeam(c.Request.Context(), req)
	if err != nil {
		r.fail(c, "team create", err)
		return
	}
	logger.Infof("[api] team created ip=%s team=%s members=%d", c.ClientIP(), view.ID, len(view.Members))
	c.JSON(http.StatusCreated, view)
}

func (r *Router) handleTeamGet(c *gin.Context) {
	view, err := r.svc.GetTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.fail(c, "team get", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (r *Router) handleTeamReport(c *gin.Context) {
	view, report, err := r.svc.StoredTeamReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.fail(c, "team report", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": view, "fingerprint": report.Fingerprint, "cached": report.Cached, "report": report.Report})
}

func (r *Router) handleRecommend(c *gin.Context) {
	var req service.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := r.svc.Recommend(req)
	if err != nil {
		r.fail(c, "recommend", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (r *Router) handleCultures(c *gin.Context) {
	lang := r.lang(c)
	all := culture.All()
	out := make([]gin.H, 0, len(all))
	for _, country := range all {
		out = append(out, gin.H{"code": country.Code, "name": country.Name.In(lang)})
	}
	c.JSON(http.StatusOK, gin.H{"language": lang, "countries": out})
}

func (r *Router) handleCulture(c *gin.Context) {
	lang := r.lang(c)
	country, err := culture.Lookup(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	reading, err := culture.Interpret(country.Code, lang)
	if err != nil {
		r.fail(c, "culture", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":           country.Code,
		"name":           country.Name.In(lang),
		"culture_map":    country.CultureMap,
		"hofstede":       country.Hofstede,
		"interpretation": reading,
	})
}

func (r *Router) handleEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	kind := eventlog.Kind(strings.TrimSpace(c.Query("kind")))
	events, err := r.svc.Events(c.Request.Context(), kind, limit)
	if err != nil {
		r.fail(c, "events", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
