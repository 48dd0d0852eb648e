package server

import (
	"net/http"
	"strconv"
	"strings"

	tierlimitdomain "github.com/Achorval/Voouch-Api-sub001/internal/tierlimit/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListTierLimits(c *gin.Context) {
	resp, err := s.tierLimitSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetTierLimitByID also accepts ?by=level, treating the path value as a level.
func (s *Server) GetTierLimitByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var (
		resp *tierlimitdomain.Response
		err  error
	)
	if strings.EqualFold(strings.TrimSpace(c.Query("by")), "level") {
		level, convErr := strconv.Atoi(id)
		if convErr != nil {
			AbortWithError(c, tierlimitdomain.ErrInvalidLevel)
			return
		}
		resp, err = s.tierLimitSvc.GetByLevel(c.Request.Context(), level)
	} else {
		resp, err = s.tierLimitSvc.Get(c.Request.Context(), id)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateTierLimit(c *gin.Context) {
	var req tierlimitdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tierLimitSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateTierLimit(c *gin.Context) {
	var req tierlimitdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tierLimitSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
