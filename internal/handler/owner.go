package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/messmate/internal/export"
	"github.com/iliyamo/messmate/internal/middleware"
	"github.com/iliyamo/messmate/internal/model"
	"github.com/iliyamo/messmate/internal/service"
	"github.com/iliyamo/messmate/internal/utils"
)

// OwnerHandler serves the owner's view of their own mess. Every request is
// scoped to the mess owned by the caller.
type OwnerHandler struct {
	Messes *service.MessService
	Roster *service.RosterService
	Ledger *service.LedgerService
	Bills  *service.BillingService
	Views  *service.DashboardService
	Now    func() time.Time
}

func NewOwnerHandler(messes *service.MessService, roster *service.RosterService, ledger *service.LedgerService, billing *service.BillingService, dashboard *service.DashboardService) *OwnerHandler {
	if messes == nil || roster == nil || ledger == nil || billing == nil || dashboard == nil {
		panic("nil service passed to NewOwnerHandler")
	}
	return &OwnerHandler{Messes: messes, Roster: roster, Ledger: ledger, Bills: billing, Views: dashboard, Now: time.Now}
}

// ----- DTOs -----

type updateMessReq struct {
	Name        *string         `json:"name"`
	PerMealRate json.RawMessage `json:"per_meal_rate"` // number or numeric string
	Currency    *string         `json:"currency"`
}

type addStudentReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type markReq struct {
	Date      string `json:"date"`
	StudentID string `json:"student_id"`
	Present   *bool  `json:"present"`
}

type dayResp struct {
	Date    string          `json:"date"`
	Records map[string]bool `json:"records"`
}

// ownMess resolves the caller's mess or writes a 404.
func (h *OwnerHandler) ownMess(c echo.Context) (*model.Mess, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	m := h.Messes.ByOwner(ctx, middleware.IdentityFrom(c).UserID)
	if m == nil {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "no mess for this owner"})
	}
	return m, nil
}

// GetMess returns the owner's mess settings.
func (h *OwnerHandler) GetMess(c echo.Context) error {
	m, err := h.ownMess(c)
	if m == nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// UpdateMess applies a partial update. A rate change reprices every month,
// past ones included.
func (h *OwnerHandler) UpdateMess(c echo.Context) error {
	m, err := h.ownMess(c)
	if m == nil {
		return err
	}
	var req updateMessReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	upd := model.MessUpdate{Name: req.Name, Currency: req.Currency}
	if raw := bytes.TrimSpace(req.PerMealRate); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		rate, err := utils.ParseRate(strings.Trim(string(raw), `"`))
		if err != nil {
			return writeError(c, err, "")
		}
		upd.PerMealRate = &rate
	}
	if upd.Currency != nil && strings.TrimSpace(*upd.Currency) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "currency must not be empty"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	updated, err := h.Messes.Update(ctx, m.ID, upd)
	if err != nil {
		return writeError(c, err, "mess not found")
	}
	return c.JSON(http.StatusOK, updated)
}

// ListStudents returns the roster in enrollment order.
func (h *OwnerHandler) ListStudents(c echo.Context) error {
	m, err := h.ownMess(c)
	if m == nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	return c.JSON(http.StatusOK, h.Roster.ListByMess(ctx, m.ID))
}

// AddStudent enrolls a student by name and phone.
func (h *OwnerHandler) AddStudent(c echo.Context) error {
	m, err := h.ownMess(c)
	if m == nil {
		return err
	}
	var req addStudentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := utils.ValidateName(req.Name); err != nil {
		return writeError(c, err, "")
	}
	if err := utils.ValidatePhone(utils.NormalizePhone(req.Phone)); err != nil {
		return writeError(c, err, "")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	st, err := h.Roster.Add(ctx, m.ID, req.Name, req.Phone)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(http.StatusCreated, st)
}

// GetAttendance returns the flags recorded on ?date= (default today).
func (h *OwnerHandler) GetAttendance(c echo.Context) error {
	m, err := h.ownMess(c)
	if m == nil {
		return err
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		date = h.Now().Format(model.DateLayout)
	}
	if err := utils.ValidateDate(date); err != nil {
		return writeError(c, err, "")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	return c.JSON(http.StatusOK, dayResp{Date: date, Records: h.Ledger.GetDay(ctx, m.ID, date)})
}

// MarkAttendance sets one student's flag for one day. The student must be
// on this mess's roster.
func (h *OwnerHandler) MarkAttendance(c echo.Context) error {
	m, err := h.ownMess(c)
	if m == nil {
		return err
	}
	var req markReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := utils.ValidateDate(req.Date); err != nil {
		return writeError(c, err, "")
	}
	if req.StudentID == "" || req.Present == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "student_id and present are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	enrolled := false
	for _, st := range h.Roster.ListByMess(ctx, m.ID) {
		if st.ID == req.StudentID {
			enrolled = true
			break
		}
	}
	if !enrolled {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "student not in this mess"})
	}

	if err := h.Ledger.Mark(ctx, m.ID, req.Date, req.StudentID, *req.Present); err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(http.StatusOK, dayResp{Date: req.Date, Records: h.Ledger.GetDay(ctx, m.ID, req.Date)})
}

// Dashboard returns roster size, today's head count and the current rate.
func (h *OwnerHandler) Dashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Views.Owner(ctx, middleware.IdentityFrom(c).UserID)
	if err != nil {
		return writeError(c, err, "no mess for this owner")
	}
	return c.JSON(http.StatusOK, d)
}

// parsePeriod reads ?year= and zero-based ?month=, defaulting to the
// current month.
func (h *OwnerHandler) parsePeriod(c echo.Context) (year, month int, err error) {
	now := h.Now()
	year, month = now.Year(), int(now.Month())-1
	if v := c.QueryParam("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil || year < 1 || year > 9999 {
			return 0, 0, fmt.Errorf("year %q: %w", v, utils.ErrInvalidDate)
		}
	}
	if v := c.QueryParam("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			return 0, 0, utils.ErrInvalidMonth
		}
	}
	return year, month, utils.ValidateMonth(month)
}

// Billing returns the monthly summary. ?sort=amount orders lines by amount,
// highest first; otherwise roster order is kept.
func (h *OwnerHandler) Billing(c echo.Context) error {
	m, err := h.ownMess(c)
	if m == nil {
		return err
	}
	year, month, err := h.parsePeriod(c)
	if err != nil {
		return writeError(c, err, "")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sum, err := h.Bills.Summary(ctx, m.ID, year, month, c.QueryParam("sort") == "amount")
	if err != nil {
		return writeError(c, err, "mess not found")
	}
	return c.JSON(http.StatusOK, sum)
}

// ExportBilling streams the monthly summary as an XLSX attachment.
func (h *OwnerHandler) ExportBilling(c echo.Context) error {
	m, err := h.ownMess(c)
	if m == nil {
		return err
	}
	year, month, err := h.parsePeriod(c)
	if err != nil {
		return writeError(c, err, "")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sum, err := h.Bills.Summary(ctx, m.ID, year, month, true)
	if err != nil {
		return writeError(c, err, "mess not found")
	}

	var buf bytes.Buffer
	if err := export.MonthlyReportXLSX(&buf, m.Name, *sum); err != nil {
		return writeError(c, err, "")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.FileName(*sum)))
	return c.Blob(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}
