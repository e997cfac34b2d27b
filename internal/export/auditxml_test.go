package export

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/harborline/loanserve/internal/models"
)

func TestAuditTrailXML_RendersEntries(t *testing.T) {
	loanID := int64(7)
	entries := []models.AuditLogEntry{
		{
			ID:          "e1",
			LoanID:      &loanID,
			ActionType:  "transaction_created",
			Category:    "payment",
			Description: "payment transaction of 1500.00 created",
			PerformedBy: 42,
			ReferenceID: "tx-1",
			PerformedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:          "e2",
			ActionType:  "settings_updated",
			Category:    "loan",
			PerformedBy: 9,
			PerformedAt: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		},
	}

	out, err := AuditTrailXML(entries, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(out); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	root := doc.SelectElement("AuditTrail")
	if root == nil {
		t.Fatal("expected AuditTrail root element")
	}
	if got := root.SelectAttrValue("entryCount", ""); got != "2" {
		t.Fatalf("expected entryCount 2, got %s", got)
	}
	xmlEntries := root.SelectElements("Entry")
	if len(xmlEntries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(xmlEntries))
	}
	if got := xmlEntries[0].SelectElement("LoanID").Text(); got != "7" {
		t.Fatalf("expected loan id 7, got %s", got)
	}
	if xmlEntries[1].SelectElement("LoanID") != nil {
		t.Fatal("expected no LoanID element for loan-less entry")
	}
	if !strings.Contains(string(out), "transaction_created") {
		t.Fatal("expected action type in output")
	}
}

func TestAuditTrailXML_EmptyTrail(t *testing.T) {
	out, err := AuditTrailXML(nil, time.Now())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(out); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if got := doc.SelectElement("AuditTrail").SelectAttrValue("entryCount", ""); got != "0" {
		t.Fatalf("expected entryCount 0, got %s", got)
	}
}
