package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"kasir-amanah/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ReportHandler exposes the derived sales reports: period summaries,
// best sellers, stock valuation, persisted snapshots and XLSX export.
type ReportHandler struct {
	reports  *services.ReportService
	products *services.ProductService
}

// NewReportHandler wires the handler to its services.
func NewReportHandler(reports *services.ReportService, products *services.ProductService) *ReportHandler {
	return &ReportHandler{reports: reports, products: products}
}

// parsePeriod reads start/end query params (YYYY-MM-DD). Defaults to
// today: midnight through now. The end date is inclusive.
func parsePeriod(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := now

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, now.Location())
		if err != nil {
			return start, end, fmt.Errorf("invalid start date %q", raw)
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, now.Location())
		if err != nil {
			return start, end, fmt.Errorf("invalid end date %q", raw)
		}
		end = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return start, end, nil
}

// GetSummary returns revenue, profit and counters for a period.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	start, end, err := parsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.reports.GetSummary(start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetBestSellers ranks products by quantity sold in a period.
func (h *ReportHandler) GetBestSellers(c *gin.Context) {
	start, end, err := parsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	ranking, err := h.reports.GetBestSellers(start, end, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ranking)
}

// ValuationItem is one product row of the stock valuation report.
type ValuationItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"costPrice"`
	TotalCost float64 `json:"totalCost"`
}

// CategoryGroup groups valuation rows by product category.
type CategoryGroup struct {
	CategoryName string          `json:"categoryName"`
	Items        []ValuationItem `json:"items"`
	Subtotal     float64         `json:"subtotal"`
}

// GetStockValuation calculates the monetary value of the physical
// inventory at cost price, grouped by category.
func (h *ReportHandler) GetStockValuation(c *gin.Context) {
	products, err := h.products.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	var grandTotal float64
	grouped := make(map[string]*CategoryGroup)
	for _, p := range products {
		catName := p.Category
		if catName == "" {
			catName = "Uncategorized"
		}
		if _, exists := grouped[catName]; !exists {
			grouped[catName] = &CategoryGroup{CategoryName: catName}
		}

		itemTotal := float64(p.Stock) * p.PriceBuy
		grouped[catName].Items = append(grouped[catName].Items, ValuationItem{
			Name:      p.Name,
			Quantity:  p.Stock,
			CostPrice: p.PriceBuy,
			TotalCost: itemTotal,
		})
		grouped[catName].Subtotal += itemTotal
		grandTotal += itemTotal
	}

	categories := make([]CategoryGroup, 0, len(grouped))
	for _, group := range grouped {
		categories = append(categories, *group)
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "grandTotal": grandTotal})
}

// SaveSnapshot persists a summary for a period into the reports
// collection.
func (h *ReportHandler) SaveSnapshot(c *gin.Context) {
	start, end, err := parsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reports.SaveSnapshot(c.DefaultQuery("period", "custom"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// GetSnapshots lists the persisted report history, newest first.
func (h *ReportHandler) GetSnapshots(c *gin.Context) {
	reports, err := h.reports.GetSnapshots()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// ExportXLSX streams a period's transactions as a spreadsheet download.
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	start, end, err := parsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transactions, err := h.reports.TransactionsByPeriod(start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Sales"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sheet"})
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Receipt", "Date", "Cashier", "Payment", "Total", "Cost", "Paid", "Change"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	for idx, t := range transactions {
		row := idx + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.CreatedAt.Format("2006-01-02 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.CashierName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.PaymentMethod)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.TotalAmount)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), t.TotalCost)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), t.AmountPaid)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), t.Change)
	}

	filename := fmt.Sprintf("sales_report_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write spreadsheet"})
		return
	}
}
