package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/programme-lv/judger/api"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/judge"
)

// JobService is implemented by *judge.Service.
type JobService interface {
	Submit(ctx context.Context, sub jobs.Submission) (jobs.Job, error)
	List(f jobs.Filter) []jobs.Job
	Get(id uint32) (jobs.Job, error)
	Rerun(ctx context.Context, id uint32) (jobs.Job, error)
	Delete(id uint32) error
}

type Handler struct {
	svc    JobService
	logger *slog.Logger
}

func (h *Handler) PostJob(c *gin.Context) {
	var body api.SubmitReq
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, api.ReasonInvalidArgument, err.Error())
		return
	}

	job, err := h.svc.Submit(jobContext(c), jobs.Submission{
		SourceCode: body.SourceCode,
		Language:   body.Language,
		ProblemID:  *body.ProblemID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewJob(job))
}

func (h *Handler) ListJobs(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, api.ReasonInvalidArgument, err.Error())
		return
	}
	c.JSON(http.StatusOK, api.NewJobs(h.svc.List(f)))
}

func (h *Handler) GetJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	job, err := h.svc.Get(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewJob(job))
}

func (h *Handler) PutJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	job, err := h.svc.Rerun(jobContext(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewJob(job))
}

func (h *Handler) DeleteJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, judge.ErrProblemNotFound):
		writeError(c, http.StatusBadRequest, api.ReasonInvalidArgument, err.Error())
	case errors.Is(err, jobs.ErrNotFound):
		writeError(c, http.StatusNotFound, api.ReasonNotFound, fmt.Sprintf("job %s not found", c.Param("id")))
	case errors.Is(err, judge.ErrJobBusy):
		writeError(c, http.StatusConflict, api.ReasonBusy, err.Error())
	default:
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
		writeError(c, http.StatusInternalServerError, api.ReasonInternal, "internal error")
	}
}

func writeError(c *gin.Context, status int, reason, msg string) {
	c.AbortWithStatusJSON(status, api.Error{Code: status, Reason: reason, Message: msg})
}

func jobID(c *gin.Context) (uint32, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		writeError(c, http.StatusBadRequest, api.ReasonInvalidArgument, fmt.Sprintf("invalid job id %q", c.Param("id")))
		return 0, false
	}
	return uint32(id), true
}

func parseFilter(c *gin.Context) (jobs.Filter, error) {
	var f jobs.Filter
	if v, ok := c.GetQuery("problem_id"); ok {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return f, fmt.Errorf("invalid problem_id %q", v)
		}
		pid := uint32(id)
		f.ProblemID = &pid
	}
	if v, ok := c.GetQuery("language"); ok {
		f.Language = &v
	}
	if v, ok := c.GetQuery("state"); ok {
		s, err := api.ParseState(v)
		if err != nil {
			return f, err
		}
		f.State = &s
	}
	if v, ok := c.GetQuery("result"); ok {
		r, err := api.ParseVerdict(v)
		if err != nil {
			return f, err
		}
		f.Result = &r
	}
	if v, ok := c.GetQuery("from"); ok {
		t, err := api.ParseTime(v)
		if err != nil {
			return f, fmt.Errorf("invalid from %q", v)
		}
		f.From = &t
	}
	if v, ok := c.GetQuery("to"); ok {
		t, err := api.ParseTime(v)
		if err != nil {
			return f, fmt.Errorf("invalid to %q", v)
		}
		f.To = &t
	}
	return f, nil
}
