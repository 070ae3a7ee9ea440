package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltmart/storefront-gateway/internal/backend"
	"github.com/voltmart/storefront-gateway/internal/emi"
)

func listEMIApplicationsHandler(api *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := api.ListEMIApplications(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func listEMIRecordsHandler(api *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := api.ListEMIRecords(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		summaries := make([]emi.Summary, 0, len(res.Results))
		for _, rec := range res.Results {
			summaries = append(summaries, emi.Summarize(rec))
		}
		c.JSON(http.StatusOK, gin.H{"count": res.Count, "results": summaries})
	}
}

func getEMIRecordHandler(api *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := api.GetEMIRecord(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"record":  rec,
			"summary": emi.Summarize(*rec),
		})
	}
}

// payInstallmentHandler initiates payment of one installment. When the
// backend returns a redirect URL the client navigates to the external
// gateway; that step is terminal once taken.
func payInstallmentHandler(api *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			InstallmentNumber int `json:"installment_number" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := api.PayInstallment(c.Request.Context(), c.Param("id"), body.InstallmentNumber)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// payFullHandler settles the whole remaining balance. The record is fetched
// first so the forwarded order id and remaining amount match what the backend
// last reported; the backend's own derivation stays authoritative.
func payFullHandler(api *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := api.GetEMIRecord(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		out, err := api.InitiateFullPayment(c.Request.Context(), rec.ID, rec.OrderID, rec.RemainingAmount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
