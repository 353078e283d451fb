package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

const (
	exportPageSize = maxListLimit
	exportMaxRows  = 50000
)

var exportLanguages = []string{"en", "ar", "sv"}

// ExportUseCase renders a whole collection as CSV or JSON
type ExportUseCase struct {
	logs     outbound.AuditLogRepository
	products outbound.ProductRepository
	orders   outbound.OrderRepository
	users    outbound.UserRepository
	session  outbound.SessionProvider
	recorder inbound.AuditRecorder
	logger   logger.Logger
	now      func() time.Time
}

func NewExportUseCase(
	logs outbound.AuditLogRepository,
	products outbound.ProductRepository,
	orders outbound.OrderRepository,
	users outbound.UserRepository,
	session outbound.SessionProvider,
	recorder inbound.AuditRecorder,
	log logger.Logger,
) *ExportUseCase {
	return &ExportUseCase{
		logs:     logs,
		products: products,
		orders:   orders,
		users:    users,
		session:  session,
		recorder: recorder,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ inbound.ExportUseCase = (*ExportUseCase)(nil)

// table is the format-independent shape of an export
type table struct {
	header  []string
	rows    [][]string
	records interface{}
	count   int
}

func (uc *ExportUseCase) Export(ctx context.Context, req inbound.ExportRequest) (*inbound.ExportResult, error) {
	entityType, ok := req.Resource.EntityType()
	if !ok {
		return nil, apperror.NewValidationError("resource", fmt.Sprintf("cannot export %q", req.Resource))
	}
	if req.Format == "" {
		req.Format = inbound.ExportFormatCSV
	}
	if req.Format != inbound.ExportFormatCSV && req.Format != inbound.ExportFormatJSON {
		return nil, apperror.NewValidationError("format", "must be csv or json")
	}

	var (
		t   *table
		err error
	)
	switch req.Resource {
	case inbound.ExportAuditLogs:
		t, err = uc.auditLogTable(ctx)
	case inbound.ExportProducts:
		t, err = uc.productTable(ctx)
	case inbound.ExportOrders:
		t, err = uc.orderTable(ctx)
	case inbound.ExportUsers:
		t, err = uc.userTable(ctx)
	}
	if err != nil {
		return nil, err
	}

	result := &inbound.ExportResult{
		Filename: fmt.Sprintf("%s_%s.%s", req.Resource, uc.now().Format("2006-01-02"), req.Format),
		Rows:     t.count,
	}
	if req.Format == inbound.ExportFormatJSON {
		result.ContentType = "application/json"
		result.Body, err = json.MarshalIndent(t.records, "", "  ")
	} else {
		result.ContentType = "text/csv; charset=utf-8"
		result.Body, err = encodeCSV(t)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	_ = uc.recorder.Exported(ctx, entityType, req.Format, t.count)
	uc.logger.Info(ctx, "Export generated", map[string]interface{}{
		"resource": req.Resource,
		"format":   req.Format,
		"rows":     t.count,
	})
	return result, nil
}

func (uc *ExportUseCase) auditLogTable(ctx context.Context) (*table, error) {
	if _, err := authorize(ctx, uc.session, "view audit logs", func(p entity.Permissions) bool { return p.CanViewAuditLogs }); err != nil {
		return nil, err
	}

	// Pages follow a (created_at, id) cursor, so rows written during the export
	// neither repeat nor push others off a page.
	logs := []*entity.AuditLog{}
	filter := entity.AuditLogFilter{Limit: exportPageSize}
	for len(logs) < exportMaxRows {
		page, err := uc.logs.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to load audit logs: %w", err)
		}
		logs = append(logs, page...)
		if len(page) < exportPageSize {
			break
		}
		last := page[len(page)-1]
		filter.After = entity.CursorAt(last.CreatedAt, last.ID)
	}

	t := &table{
		header:  []string{"ID", "Created At", "User Email", "Action", "Entity Type", "Entity ID", "Entity Name", "Reverted", "Deleted"},
		records: logs,
		count:   len(logs),
	}
	for _, l := range logs {
		t.rows = append(t.rows, []string{
			l.ID,
			l.CreatedAt.Format(time.RFC3339),
			l.UserEmail,
			string(l.Action),
			string(l.EntityType),
			deref(l.EntityID),
			deref(l.EntityName),
			yesNo(l.Reverted),
			yesNo(l.Deleted),
		})
	}
	return t, nil
}

func (uc *ExportUseCase) productTable(ctx context.Context) (*table, error) {
	if _, err := authorize(ctx, uc.session, "view products", func(p entity.Permissions) bool { return p.CanViewProducts }); err != nil {
		return nil, err
	}

	products := []*entity.Product{}
	filter := entity.ProductFilter{Limit: exportPageSize}
	for len(products) < exportMaxRows {
		page, err := uc.products.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to load products: %w", err)
		}
		products = append(products, page...)
		if len(page) < exportPageSize {
			break
		}
		last := page[len(page)-1]
		filter.After = entity.CursorAt(last.CreatedAt, last.ID)
	}

	header := []string{"ID", "Slug"}
	for _, lang := range exportLanguages {
		header = append(header, fmt.Sprintf("Title (%s)", strings.ToUpper(lang)))
	}
	header = append(header, "Price", "Currency", "Stock", "Category", "Discount %", "Discount Active", "Created At")

	t := &table{header: header, records: products, count: len(products)}
	for _, p := range products {
		row := []string{p.ID, p.Slug}
		for _, lang := range exportLanguages {
			row = append(row, p.Title[lang])
		}
		row = append(row,
			strconv.FormatInt(p.Price, 10),
			p.Currency,
			strconv.Itoa(p.Stock),
			p.Category,
			strconv.FormatFloat(p.DiscountPercentage, 'f', -1, 64),
			yesNo(p.DiscountActive),
			p.CreatedAt.Format(time.RFC3339),
		)
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func (uc *ExportUseCase) orderTable(ctx context.Context) (*table, error) {
	if _, err := authorize(ctx, uc.session, "view orders", func(p entity.Permissions) bool { return p.CanViewOrders }); err != nil {
		return nil, err
	}

	orders := []*entity.Order{}
	filter := entity.OrderFilter{Limit: exportPageSize}
	for len(orders) < exportMaxRows {
		page, err := uc.orders.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to load orders: %w", err)
		}
		orders = append(orders, page...)
		if len(page) < exportPageSize {
			break
		}
		last := page[len(page)-1]
		filter.After = entity.CursorAt(last.CreatedAt, last.ID)
	}

	t := &table{
		header:  []string{"ID", "User ID", "Status", "Total", "Currency", "Shipping Email", "Created At"},
		records: orders,
		count:   len(orders),
	}
	for _, o := range orders {
		t.rows = append(t.rows, []string{
			o.ID,
			o.UserID,
			string(o.Status),
			strconv.FormatInt(o.Total, 10),
			o.Currency,
			deref(o.ShippingEmail),
			o.CreatedAt.Format(time.RFC3339),
		})
	}
	return t, nil
}

func (uc *ExportUseCase) userTable(ctx context.Context) (*table, error) {
	if _, err := authorize(ctx, uc.session, "view users", func(p entity.Permissions) bool { return p.CanViewUsers }); err != nil {
		return nil, err
	}

	users := []*entity.AdminUser{}
	filter := entity.UserFilter{Limit: exportPageSize}
	for len(users) < exportMaxRows {
		page, err := uc.users.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to load users: %w", err)
		}
		users = append(users, page...)
		if len(page) < exportPageSize {
			break
		}
		last := page[len(page)-1]
		filter.After = entity.CursorAt(last.CreatedAt, last.ID)
	}

	t := &table{
		header:  []string{"ID", "Email", "Full Name", "Role", "Created At"},
		records: users,
		count:   len(users),
	}
	for _, u := range users {
		t.rows = append(t.rows, []string{u.ID, u.Email, u.FullName, string(u.Role), u.CreatedAt.Format(time.RFC3339)})
	}
	return t, nil
}

func encodeCSV(t *table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

