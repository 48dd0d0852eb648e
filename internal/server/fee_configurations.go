package server

import (
	"net/http"
	"strings"

	feeconfigdomain "github.com/Achorval/Voouch-Api-sub001/internal/feeconfig/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListFeeConfigurations(c *gin.Context) {
	resp, err := s.feeSvc.List(c.Request.Context(), strings.TrimSpace(c.Query("product_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ConfigureFee upserts the link for the product/provider pair in the body.
func (s *Server) ConfigureFee(c *gin.Context) {
	var req feeconfigdomain.ConfigureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req.ProductID = strings.TrimSpace(req.ProductID)
	req.ProviderID = strings.TrimSpace(req.ProviderID)
	req.ProviderProductCode = strings.TrimSpace(req.ProviderProductCode)
	req.FeeType = strings.TrimSpace(req.FeeType)

	resp, err := s.feeSvc.Configure(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDefaultFeeConfiguration(c *gin.Context) {
	resp, err := s.feeSvc.ResolveDefault(c.Request.Context(), strings.TrimSpace(c.Query("product_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) QuoteFee(c *gin.Context) {
	var req feeconfigdomain.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req.ProductID = strings.TrimSpace(req.ProductID)
	req.ProviderID = strings.TrimSpace(req.ProviderID)

	resp, err := s.feeSvc.ResolveEffectiveFee(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) EnableFeeConfiguration(c *gin.Context) {
	s.setFeeConfigurationEnabled(c, true)
}

func (s *Server) DisableFeeConfiguration(c *gin.Context) {
	s.setFeeConfigurationEnabled(c, false)
}

func (s *Server) setFeeConfigurationEnabled(c *gin.Context, enabled bool) {
	resp, err := s.feeSvc.SetEnabled(c.Request.Context(), strings.TrimSpace(c.Param("id")), enabled)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
