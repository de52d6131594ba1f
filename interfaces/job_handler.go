package interfaces

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobly/domain"
)

func (h *HTTPHandler) createJob(c *gin.Context) {
	var req domain.JobCreate
	if !h.bindJSON(c, &req) {
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

// listJobs handles GET /jobs?title=&minSalary=&hasEquity=
func (h *HTTPHandler) listJobs(c *gin.Context) {
	filter, err := domain.ParseJobFilter(c.Request.URL.Query())
	if err != nil {
		h.respondError(c, err)
		return
	}

	jobs, err := h.jobs.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *HTTPHandler) getJob(c *gin.Context) {
	id, ok := jobIDParam(c)
	if !ok {
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *HTTPHandler) updateJob(c *gin.Context) {
	id, ok := jobIDParam(c)
	if !ok {
		return
	}
	var req domain.JobUpdate
	if !h.bindJSON(c, &req) {
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), id, req.Fields())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *HTTPHandler) deleteJob(c *gin.Context) {
	id, ok := jobIDParam(c)
	if !ok {
		return
	}

	if err := h.jobs.Remove(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// jobIDParam parses :id, writing a 400 when it is not a positive integer.
// Ids past the range of the jobs.id column cannot exist and get a 404.
func jobIDParam(c *gin.Context) (int, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 32)
	if errors.Is(err, strconv.ErrRange) && id > 0 {
		abortWithError(c, http.StatusNotFound, "No job: "+raw)
		return 0, false
	}
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, "invalid job id")
		return 0, false
	}
	return int(id), true
}
