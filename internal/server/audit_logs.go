package server

import (
	"net/http"
	"strings"

	auditdomain "github.com/Achorval/Voouch-Api-sub001/internal/audit/domain"
	"github.com/gin-gonic/gin"
)

type listAuditLogsQuery struct {
	Page      string `form:"page"`
	Limit     string `form:"limit"`
	UserID    string `form:"user_id"`
	Type      string `form:"type"`
	Source    string `form:"source"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Search    string `form:"search"`
}

func (s *Server) ListAuditLogs(c *gin.Context) {
	var query listAuditLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := parsePagination(query.Page, query.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	startDate, err := parseOptionalTime(query.StartDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return
	}
	endDate, err := parseOptionalTime(query.EndDate, true)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
		return
	}

	resp, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListRequest{
		Pagination: page,
		UserID:     strings.TrimSpace(query.UserID),
		Type:       strings.TrimSpace(query.Type),
		Source:     strings.TrimSpace(query.Source),
		StartDate:  startDate,
		EndDate:    endDate,
		Search:     strings.TrimSpace(query.Search),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Logs, "meta": resp.Meta})
}

// RecordAuditLog appends an entry outside of any domain transaction. Client
// fields missing from the body are taken from the request headers.
func (s *Server) RecordAuditLog(c *gin.Context) {
	var req auditdomain.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.Type = strings.TrimSpace(req.Type)
	req.Source = strings.TrimSpace(req.Source)

	resp, err := s.auditSvc.Record(c.Request.Context(), nil, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
