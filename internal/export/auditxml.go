package export

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/harborline/loanserve/internal/models"
)

// AuditTrailXML renders audit entries as a compliance export document.
func AuditTrailXML(entries []models.AuditLogEntry, generatedAt time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("AuditTrail")
	root.CreateAttr("generatedAt", generatedAt.UTC().Format(time.RFC3339))
	root.CreateAttr("entryCount", fmt.Sprintf("%d", len(entries)))

	for _, e := range entries {
		entry := root.CreateElement("Entry")
		entry.CreateAttr("id", e.ID)
		entry.CreateElement("ActionType").SetText(e.ActionType)
		entry.CreateElement("Category").SetText(e.Category)
		entry.CreateElement("Description").SetText(e.Description)
		entry.CreateElement("PerformedBy").SetText(fmt.Sprintf("%d", e.PerformedBy))
		entry.CreateElement("PerformedAt").SetText(e.PerformedAt.UTC().Format(time.RFC3339))
		if e.LoanID != nil {
			entry.CreateElement("LoanID").SetText(fmt.Sprintf("%d", *e.LoanID))
		}
		if e.ReferenceID != "" {
			entry.CreateElement("ReferenceID").SetText(e.ReferenceID)
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize audit export: %w", err)
	}
	return out, nil
}
