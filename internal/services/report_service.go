package services

import (
	"sort"
	"time"

	"kasir-amanah/internal/models"
	"kasir-amanah/internal/store"
	"kasir-amanah/internal/utils"
)

// ReportService derives sales reports from the transaction ledger. It
// never writes to any collection other than reports.
type ReportService struct {
	store        *store.Store
	transactions *TransactionService
}

// NewReportService creates a report service over the transaction ledger.
func NewReportService(s *store.Store, transactions *TransactionService) *ReportService {
	return &ReportService{store: s, transactions: transactions}
}

// Summary aggregates one reporting period.
type Summary struct {
	Revenue          float64 `json:"revenue"`
	Profit           float64 `json:"profit"`
	TransactionCount int     `json:"transactionCount"`
	ItemsSoldCount   int     `json:"itemsSoldCount"`
}

// BestSellingProduct is one row of the best-sellers ranking.
type BestSellingProduct struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	QuantitySold int    `json:"quantitySold"`
}

// TransactionsByPeriod returns the transactions committed inside
// [start, end], newest first.
func (s *ReportService) TransactionsByPeriod(start, end time.Time) ([]models.Transaction, error) {
	all, err := s.transactions.GetAll()
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Transaction, 0, len(all))
	for _, t := range all {
		if !t.CreatedAt.Before(start) && !t.CreatedAt.After(end) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// GetSummary computes revenue, profit and counters for a period.
func (s *ReportService) GetSummary(start, end time.Time) (*Summary, error) {
	transactions, err := s.TransactionsByPeriod(start, end)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, t := range transactions {
		summary.Revenue += t.TotalAmount
		summary.Profit += t.TotalAmount - t.TotalCost
		summary.TransactionCount++
		for _, item := range t.Items {
			summary.ItemsSoldCount += item.Quantity
		}
	}
	return summary, nil
}

// GetBestSellers ranks products by quantity sold in a period.
func (s *ReportService) GetBestSellers(start, end time.Time, limit int) ([]BestSellingProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	transactions, err := s.TransactionsByPeriod(start, end)
	if err != nil {
		return nil, err
	}

	sold := make(map[string]*BestSellingProduct)
	for _, t := range transactions {
		for _, item := range t.Items {
			entry, ok := sold[item.ProductID]
			if !ok {
				entry = &BestSellingProduct{ProductID: item.ProductID, ProductName: item.ProductName}
				sold[item.ProductID] = entry
			}
			entry.QuantitySold += item.Quantity
		}
	}

	ranking := make([]BestSellingProduct, 0, len(sold))
	for _, entry := range sold {
		ranking = append(ranking, *entry)
	}
	sort.Slice(ranking, func(i, j int) bool {
		return ranking[i].QuantitySold > ranking[j].QuantitySold
	})
	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking, nil
}

// SaveSnapshot persists the summary for a period into the reports
// collection, so the operational view can show history without
// rescanning the ledger.
func (s *ReportService) SaveSnapshot(period string, start, end time.Time) (*models.Report, error) {
	summary, err := s.GetSummary(start, end)
	if err != nil {
		return nil, err
	}

	report := models.Report{
		ID:               utils.NewReportID(),
		Period:           period,
		StartDate:        start,
		EndDate:          end,
		Revenue:          summary.Revenue,
		Profit:           summary.Profit,
		TransactionCount: summary.TransactionCount,
		ItemsSoldCount:   summary.ItemsSoldCount,
		CreatedAt:        time.Now(),
	}
	if err := store.Insert(s.store, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetSnapshots returns every persisted report snapshot, newest first.
func (s *ReportService) GetSnapshots() ([]models.Report, error) {
	reports, err := store.GetAll[models.Report](s.store)
	if err != nil {
		return nil, err
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}
