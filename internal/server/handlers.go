package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rhyrak/go-timetable/internal/csvio"
	"github.com/rhyrak/go-timetable/internal/scheduler"
	tterrors "github.com/rhyrak/go-timetable/pkg/errors"
	"github.com/rhyrak/go-timetable/pkg/logger"
	"github.com/rhyrak/go-timetable/pkg/model"
)

var validate = validator.New()

var errStoreDisabled = tterrors.New("STORE_DISABLED", http.StatusServiceUnavailable, "timetable persistence is disabled")

// GenerateRequest carries the same tables the CLI reads from csv files.
type GenerateRequest struct {
	Group   string                `json:"group" validate:"required"`
	Seed    *uint64               `json:"seed,omitempty"`
	Slots   []*model.SlotRecord   `json:"slots" validate:"required,min=1"`
	Rooms   []*model.RoomRecord   `json:"rooms" validate:"required,min=1"`
	Courses []*model.CourseRecord `json:"courses" validate:"required,min=1"`
	Busy    []*model.BusyRecord   `json:"busy,omitempty"`
}

type GenerateResponse struct {
	RunID  string            `json:"runId,omitempty"`
	Valid  bool              `json:"valid"`
	Report string            `json:"report"`
	Result *scheduler.Result `json:"result"`
}

func (s *Server) health(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"status": "ok",
		"store":  s.store != nil,
		"cache":  s.cache != nil,
	}, nil)
}

func (s *Server) generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, tterrors.Wrap(err, tterrors.ErrInvalidInput.Code, tterrors.ErrInvalidInput.Status, "malformed request body"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(c, tterrors.Wrap(err, tterrors.ErrInvalidInput.Code, tterrors.ErrInvalidInput.Status, "invalid request"))
		return
	}

	cfg := s.cfg.Scheduler
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	ctx := c.Request.Context()
	log := s.logger.With(zap.String("request_id", c.GetString(logger.RequestIDKey)), zap.String("group", req.Group))

	key, err := fingerprint(cfg.Seed, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	if s.cache != nil {
		var cached GenerateResponse
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			s.metrics.CacheHit()
			resp, err := s.persist(ctx, &cached)
			if err != nil {
				respondError(c, err)
				return
			}
			respond(c, http.StatusOK, resp, map[string]any{"cached": true})
			return
		}
		if !errors.Is(err, tterrors.ErrCacheMiss) {
			log.Warn("cache lookup failed", zap.Error(err))
		}
		s.metrics.CacheMiss()
	}

	resp, err := s.run(&cfg, &req, log)
	if err != nil {
		respondError(c, err)
		return
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			log.Warn("cache store failed", zap.Error(err))
		}
	}

	resp, err = s.persist(ctx, resp)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, resp, map[string]any{"cached": false})
}

func (s *Server) run(cfg *scheduler.Configuration, req *GenerateRequest, log *zap.Logger) (*GenerateResponse, error) {
	slots, err := csvio.Slots(req.Slots)
	if err != nil {
		return nil, err
	}
	rooms, err := csvio.Rooms(req.Rooms, log)
	if err != nil {
		return nil, err
	}
	courses, err := csvio.Courses(req.Courses, log)
	if err != nil {
		return nil, err
	}
	busy := csvio.Busy(req.Busy, log)

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	sched, err := scheduler.New(cfg, slots, rooms, nil, log)
	if err != nil {
		return nil, err
	}
	sched.SetFacultyBusy(busy)

	res, err := sched.Run(req.Group, courses)
	if err != nil {
		s.metrics.ObserveRun("failed", 0, 0, time.Since(start))
		return nil, err
	}

	valid, report := scheduler.Validate(res)
	outcome := "valid"
	if !valid {
		outcome = "invalid"
		log.Warn("generated timetable failed validation", zap.String("report", report))
	}
	var hours float64
	for _, u := range res.Unscheduled() {
		hours += u.RemainingHours
	}
	s.metrics.ObserveRun(outcome, len(res.Placements()), hours, time.Since(start))

	return &GenerateResponse{Valid: valid, Report: report, Result: res}, nil
}

// persist saves the result as a new run when a store is configured. Cached
// responses never carry a run id, so every request gets its own run.
func (s *Server) persist(ctx context.Context, resp *GenerateResponse) (*GenerateResponse, error) {
	out := *resp
	out.RunID = ""
	if s.store == nil || out.Result == nil {
		return &out, nil
	}
	run, err := s.store.Save(ctx, out.Result)
	if err != nil {
		return nil, err
	}
	out.RunID = run.ID
	return &out, nil
}

func (s *Server) listRuns(c *gin.Context) {
	if s.store == nil {
		respondError(c, errStoreDisabled)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	runs, err := s.store.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, runs, map[string]any{"count": len(runs)})
}

func (s *Server) getRun(c *gin.Context) {
	if s.store == nil {
		respondError(c, errStoreDisabled)
		return
	}
	run, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, run, nil)
}

func (s *Server) deleteRun(c *gin.Context) {
	if s.store == nil {
		respondError(c, errStoreDisabled)
		return
	}
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// runPlacements answers JSON by default and csv with ?format=csv.
func (s *Server) runPlacements(c *gin.Context) {
	if s.store == nil {
		respondError(c, errStoreDisabled)
		return
	}
	ctx := c.Request.Context()
	run, err := s.store.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	placements, err := s.store.Placements(ctx, run.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		out, err := csvio.PlacementsString(placements)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
		return
	}
	respond(c, http.StatusOK, placements, map[string]any{"runId": run.ID, "count": len(placements)})
}

// fingerprint identifies a request by its content and effective seed.
func fingerprint(seed uint64, req *GenerateRequest) (string, error) {
	payload, err := json.Marshal(struct {
		Seed uint64           `json:"seed"`
		Req  *GenerateRequest `json:"req"`
	}{seed, req})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
