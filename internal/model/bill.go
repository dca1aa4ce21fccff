package model

import "github.com/shopspring/decimal"

// BillLine is one student's derived bill for a month. It is never stored;
// TotalAmount always uses the mess rate at the time the report is built.
type BillLine struct {
	StudentID    string          `json:"studentId"`
	StudentName  string          `json:"studentName"`
	StudentPhone string          `json:"studentPhone"`
	TotalMeals   int             `json:"totalMeals"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// BillingSummary aggregates a monthly report.
type BillingSummary struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"` // zero-based
	Currency       string          `json:"currency"`
	PerMealRate    decimal.Decimal `json:"perMealRate"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalMeals     int             `json:"totalMeals"`
	ActiveStudents int             `json:"activeStudents"`
	Lines          []BillLine      `json:"lines"`
}
