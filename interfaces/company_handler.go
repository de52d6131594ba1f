package interfaces

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobly/domain"
)

// createCompany handles POST /companies (admin).
func (h *HTTPHandler) createCompany(c *gin.Context) {
	var req domain.CompanyCreate
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companies.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": company})
}

// listCompanies handles GET /companies?name=&minEmployees=&maxEmployees=
func (h *HTTPHandler) listCompanies(c *gin.Context) {
	filter, err := domain.ParseCompanyFilter(c.Request.URL.Query())
	if err != nil {
		h.respondError(c, err)
		return
	}

	companies, err := h.companies.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (h *HTTPHandler) getCompany(c *gin.Context) {
	company, err := h.companies.Get(c.Request.Context(), c.Param("handle"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

// updateCompany handles PATCH /companies/:handle (admin). The body may
// not contain a handle.
func (h *HTTPHandler) updateCompany(c *gin.Context) {
	var req domain.CompanyUpdate
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companies.Update(c.Request.Context(), c.Param("handle"), req.Fields())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (h *HTTPHandler) deleteCompany(c *gin.Context) {
	handle := c.Param("handle")
	if err := h.companies.Remove(c.Request.Context(), handle); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": handle})
}
