// Package document renders a checklist of selected equipment as a PDF.
package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/domain/models"
)

const (
	ContentType = "application/pdf"

	margin          = 20.0
	sectionBreakY   = 250.0
	itemBreakY      = 270.0
	itemLineHeight  = 4.0
	timestampLayout = "2006-01-02 15:04"
	fileDateLayout  = "2006-01-02"
)

// Generator formats checklists. It holds no state besides its clock.
type Generator struct {
	now    func() time.Time
	logger *zap.Logger
}

// NewGenerator returns a generator using the wall clock.
func NewGenerator(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{now: time.Now, logger: logger}
}

// ExportFileName names a freshly exported checklist.
func ExportFileName(at time.Time) string {
	return fmt.Sprintf("checklist-equipment-%s.pdf", at.Format(fileDateLayout))
}

// RegeneratedFileName names a checklist rebuilt from history.
func RegeneratedFileName(submittedBy string, at time.Time) string {
	name := strings.Join(strings.Fields(submittedBy), "-")
	if name == "" {
		name = "equipment"
	}
	return fmt.Sprintf("checklist-%s-%s.pdf", name, at.Format(fileDateLayout))
}

// Build renders req and wraps the bytes with their file name.
func (g *Generator) Build(req models.DocumentRequest) (models.Document, error) {
	content, err := g.Generate(req)
	if err != nil {
		return models.Document{}, err
	}
	name := req.FileName
	if name == "" {
		name = ExportFileName(g.now())
	}
	return models.Document{FileName: name, ContentType: ContentType, Content: content}, nil
}

// Generate renders req as PDF bytes.
func (g *Generator) Generate(req models.DocumentRequest) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Equipment Checklist", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	textWidth := pageWidth - 2*margin

	pdf.AddPage()
	y := margin

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(margin, y, "Equipment Checklist")
	y += 10

	now := g.now()
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(margin, y, tr("Submitted by: "+req.SubmittedBy))
	y += 5
	pdf.Text(margin, y, tr("Job: "+req.JobLabel))
	y += 5
	if req.OriginalTimestamp != nil {
		pdf.Text(margin, y, "Originally generated at: "+req.OriginalTimestamp.Local().Format(timestampLayout))
		y += 5
		pdf.Text(margin, y, "Regenerated at: "+now.Format(timestampLayout))
	} else {
		pdf.Text(margin, y, "Generated at: "+now.Format(timestampLayout))
	}
	y += 15

	pdf.Text(margin, y, fmt.Sprintf("Selected items: %d", req.TotalSelected))
	y += 10

	for _, group := range groupByCategory(req.Items) {
		if y > sectionBreakY {
			pdf.AddPage()
			y = margin
		}

		pdf.SetFont("Helvetica", "B", 14)
		pdf.Text(margin, y, tr(fmt.Sprintf("%s (%d items)", group.category, len(group.items))))
		y += 10

		pdf.SetFont("Helvetica", "", 9)
		for _, item := range group.items {
			if y > itemBreakY {
				pdf.AddPage()
				y = margin
			}
			lines := pdf.SplitText(tr(ItemLine(item)), textWidth)
			for i, line := range lines {
				pdf.Text(margin+5, y+float64(i)*itemLineHeight, line)
			}
			y += float64(len(lines)) * itemLineHeight
		}
		y += 5
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render checklist document: %w", err)
	}

	g.logger.Debug("document generated",
		zap.Int("items", len(req.Items)),
		zap.Int("pages", pdf.PageNo()),
		zap.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

// ItemLine is the text printed for one item.
func ItemLine(item models.EquipmentRecord) string {
	var b strings.Builder
	b.WriteString(item.Description)
	if item.Quantity > 1 {
		fmt.Fprintf(&b, " (Taking: %d of %d)", item.Taken(), item.Quantity)
	} else {
		fmt.Fprintf(&b, " (Qty: %d)", item.Quantity)
	}
	b.WriteString(" - " + item.Condition)
	if item.Notes != "" {
		b.WriteString(" | Notes: " + item.Notes)
	}
	return b.String()
}

type categoryGroup struct {
	category string
	items    []models.EquipmentRecord
}

// groupByCategory keeps categories in order of first appearance.
func groupByCategory(items []models.EquipmentRecord) []categoryGroup {
	var groups []categoryGroup
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, categoryGroup{category: item.Category})
		}
		groups[i].items = append(groups[i].items, item)
	}
	return groups
}
