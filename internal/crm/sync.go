// Package crm syncs enriched leads to a Monday.com board. Sync is
// idempotent at the lead level: an existing item with the same company name
// or contact email is never created twice.
package crm

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/pkg/monday"
)

// ErrNoBoardID is returned by lead operations before any network call when
// the service has no board configured.
var ErrNoBoardID = eris.New("crm: no board id configured")

// dupScanPageSize is the item page size used by the duplicate scan.
const dupScanPageSize = 500

// boardColumns are the columns provisioned on a new leads board, in display
// order. Column IDs are assigned remotely, so lookups go through ColumnMap.
var boardColumns = []struct {
	Title string
	Type  string
}{
	{"Website", "link"},
	{"Contact Name", "text"},
	{"Contact Email", "email"},
	{"Contact Position", "text"},
	{"Company Description", "long_text"},
	{"Region", "text"},
	{"Lead Source", "text"},
	{"Status", "status"},
	{"Date Added", "date"},
	{"Email Sent", "checkbox"},
}

// Service owns lead sync against one board.
type Service struct {
	client  monday.Client
	boardID string
	retry   resilience.Policy
}

// New creates a sync service bound to boardID. An empty boardID is allowed
// for board-provisioning calls; lead operations then fail with ErrNoBoardID.
func New(client monday.Client, boardID string) *Service {
	return &Service{
		client:  client,
		boardID: boardID,
		retry:   resilience.Policy{MaxRetries: 3, BaseDelay: time.Second}.Logged("monday", "sync"),
	}
}

// BoardID returns the board the service is bound to.
func (s *Service) BoardID() string {
	return s.boardID
}

// CreateBoard provisions a new leads board with the standard column set and
// rebinds the service to it. Individual column failures are logged and
// skipped so a partially provisioned board is still usable.
func (s *Service) CreateBoard(ctx context.Context, name string) (string, error) {
	boardID, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) (string, error) {
		return s.client.CreateBoard(ctx, name)
	})
	if err != nil {
		return "", eris.Wrap(err, "crm: create board")
	}
	zap.L().Info("board created", zap.String("board_id", boardID), zap.String("name", name))

	for _, col := range boardColumns {
		if err := s.client.CreateColumn(ctx, boardID, col.Title, col.Type); err != nil {
			zap.L().Warn("column creation failed",
				zap.String("title", col.Title),
				zap.Error(err),
			)
		}
	}

	s.boardID = boardID
	return boardID, nil
}

// ColumnMap resolves the board's columns into a lowercased-title -> id map.
func (s *Service) ColumnMap(ctx context.Context) (map[string]string, error) {
	if s.boardID == "" {
		return nil, ErrNoBoardID
	}

	columns, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) ([]monday.Column, error) {
		return s.client.ListColumns(ctx, s.boardID)
	})
	if err != nil {
		return nil, eris.Wrap(err, "crm: list columns")
	}

	m := make(map[string]string, len(columns))
	for _, col := range columns {
		m[strings.ToLower(col.Title)] = col.ID
	}
	return m, nil
}

// IsDuplicate reports whether the board already holds an item matching the
// company name or the contact email, case-insensitively. It walks every page
// of the board.
func (s *Service) IsDuplicate(ctx context.Context, company model.EnrichedCompany) (bool, error) {
	if s.boardID == "" {
		return false, ErrNoBoardID
	}

	name := strings.ToLower(strings.TrimSpace(company.CompanyName))
	email := ""
	if company.HasContact() {
		email = strings.ToLower(strings.TrimSpace(company.Contact.Email))
	}

	page, err := s.client.ListItems(ctx, s.boardID, dupScanPageSize)
	if err != nil {
		return false, eris.Wrap(err, "crm: scan items")
	}
	for {
		for _, item := range page.Items {
			if strings.ToLower(strings.TrimSpace(item.Name)) == name {
				return true, nil
			}
			if email == "" {
				continue
			}
			for _, cv := range item.ColumnValues {
				if strings.ToLower(strings.TrimSpace(cv.Text)) == email {
					return true, nil
				}
			}
		}
		if page.Cursor == "" {
			return false, nil
		}
		page, err = s.client.NextItems(ctx, page.Cursor, dupScanPageSize)
		if err != nil {
			return false, eris.Wrap(err, "crm: scan items")
		}
	}
}

// CreateLead creates one board item for the company, skipping duplicates.
// Returns the new item ID, or "" when the lead already exists.
func (s *Service) CreateLead(ctx context.Context, company model.EnrichedCompany) (string, error) {
	if s.boardID == "" {
		return "", ErrNoBoardID
	}

	dup, err := s.IsDuplicate(ctx, company)
	if err != nil {
		return "", err
	}
	if dup {
		zap.L().Info("lead already on board, skipping", zap.String("company", company.CompanyName))
		return "", nil
	}

	columnMap, err := s.ColumnMap(ctx)
	if err != nil {
		return "", err
	}

	values := buildColumnValues(columnMap, company)
	itemID, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) (string, error) {
		return s.client.CreateItem(ctx, s.boardID, company.CompanyName, values)
	})
	if err != nil {
		return "", eris.Wrap(err, "crm: create item")
	}

	zap.L().Info("lead created",
		zap.String("company", company.CompanyName),
		zap.String("item_id", itemID),
	)
	return itemID, nil
}

// CreateLeadsBatch creates items for every company, continuing past
// individual failures. The returned map holds item IDs keyed by company name
// for the leads actually created.
func (s *Service) CreateLeadsBatch(ctx context.Context, companies []model.EnrichedCompany) (map[string]string, error) {
	if s.boardID == "" {
		return nil, ErrNoBoardID
	}

	created := make(map[string]string)
	for _, company := range companies {
		itemID, err := s.CreateLead(ctx, company)
		if err != nil {
			zap.L().Error("lead creation failed, continuing",
				zap.String("company", company.CompanyName),
				zap.Error(err),
			)
			continue
		}
		if itemID != "" {
			created[company.CompanyName] = itemID
		}
	}

	zap.L().Info("lead batch complete",
		zap.Int("created", len(created)),
		zap.Int("total", len(companies)),
	)
	return created, nil
}

// MarkEmailSent checks the Email Sent box on an item. A board without that
// column makes this a no-op.
func (s *Service) MarkEmailSent(ctx context.Context, itemID string) error {
	if s.boardID == "" {
		return ErrNoBoardID
	}

	columnMap, err := s.ColumnMap(ctx)
	if err != nil {
		return err
	}
	colID, ok := columnMap["email sent"]
	if !ok {
		zap.L().Debug("board has no email sent column", zap.String("item_id", itemID))
		return nil
	}

	err = s.client.ChangeColumnValues(ctx, s.boardID, itemID, map[string]any{
		colID: map[string]string{"checked": "true"},
	})
	if err != nil {
		return eris.Wrap(err, "crm: mark email sent")
	}
	return nil
}

// buildColumnValues assembles the create_item payload, including only the
// columns that exist on the board.
func buildColumnValues(columnMap map[string]string, company model.EnrichedCompany) map[string]any {
	values := make(map[string]any)

	set := func(title string, value any) {
		if id, ok := columnMap[title]; ok {
			values[id] = value
		}
	}

	if company.Website != "" {
		set("website", map[string]string{"url": company.Website, "text": company.Website})
	}
	if company.HasContact() {
		set("contact name", company.Contact.Name)
		set("contact email", map[string]string{
			"email": company.Contact.Email,
			"text":  company.Contact.Email,
		})
		set("contact position", company.Contact.Position)
	}
	if company.Description != "" {
		set("company description", map[string]string{"text": company.Description})
	}
	set("region", company.Region)
	set("lead source", "AI Discovery")
	set("status", map[string]string{"label": "Working on it"})
	set("date added", map[string]string{"date": time.Now().Format("2006-01-02")})
	set("email sent", map[string]string{"checked": "false"})

	return values
}
