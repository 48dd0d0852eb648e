package server

import (
	"net/http"
	"strings"

	ticketdomain "github.com/Achorval/Voouch-Api-sub001/internal/ticket/domain"
	"github.com/gin-gonic/gin"
)

type listTicketsQuery struct {
	Page       string `form:"page"`
	Limit      string `form:"limit"`
	Status     string `form:"status"`
	Priority   string `form:"priority"`
	UserID     string `form:"user_id"`
	AssignedTo string `form:"assigned_to"`
}

type assignTicketRequest struct {
	AssignedTo string `json:"assigned_to"`
}

func (s *Server) ListTickets(c *gin.Context) {
	var query listTicketsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := parsePagination(query.Page, query.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.ticketSvc.List(c.Request.Context(), ticketdomain.ListRequest{
		Pagination: page,
		Status:     strings.TrimSpace(query.Status),
		Priority:   strings.TrimSpace(query.Priority),
		UserID:     strings.TrimSpace(query.UserID),
		AssignedTo: strings.TrimSpace(query.AssignedTo),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Tickets, "meta": resp.Meta})
}

func (s *Server) GetTicketByID(c *gin.Context) {
	resp, err := s.ticketSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateTicket(c *gin.Context) {
	var req ticketdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.CategoryID = strings.TrimSpace(req.CategoryID)

	resp, err := s.ticketSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateTicket(c *gin.Context) {
	var req ticketdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ticketSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AssignTicket(c *gin.Context) {
	var req assignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ticketSvc.Assign(c.Request.Context(), strings.TrimSpace(c.Param("id")), strings.TrimSpace(req.AssignedTo))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CloseTicket(c *gin.Context) {
	resp, err := s.ticketSvc.Close(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// RecordTicketReply stamps the reply time and moves the ticket to the status
// that matches who replied. An empty body counts as a user reply.
func (s *Server) RecordTicketReply(c *gin.Context) {
	var req ticketdomain.ReplyRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	resp, err := s.ticketSvc.RecordReply(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
