package extract

import (
	"reflect"
	"testing"
)

func TestDefaultCatalogueValidates(t *testing.T) {
	if err := DefaultCatalogue().Validate(); err != nil {
		t.Fatalf("shipped catalogue must be self-consistent: %v", err)
	}
}

func TestValidateRejectsKeywordInSubstanceName(t *testing.T) {
	cat := DefaultCatalogue()
	cat.Primary = append(cat.Primary, "Nachschub forte")

	if err := cat.Validate(); err == nil {
		t.Fatal("a substance name containing an exclusion keyword must be rejected")
	}
}

func TestScanDeduplicatesInPriorityOrder(t *testing.T) {
	cat := DefaultCatalogue()

	lines := []string{
		"Oxaliplatin 85mg/m2",
		"Cisplatin 50mg",
		"Cisplatin Restmenge",
	}
	found, rejected := cat.scan(cat.Primary, lines)

	want := []string{"Cisplatin", "Oxaliplatin"}
	if !reflect.DeepEqual(found, want) {
		t.Errorf("scan = %v, want %v (catalogue order, deduplicated)", found, want)
	}
	if len(rejected) != 0 {
		t.Errorf("unexpected rejected lines: %v", rejected)
	}
}

func TestScanReportsVetoedLines(t *testing.T) {
	cat := DefaultCatalogue()

	found, rejected := cat.scan(cat.Primary, []string{"Cisplatin nur nach Rücksprache"})
	if len(found) != 0 {
		t.Errorf("vetoed line still matched: %v", found)
	}
	if len(rejected) != 1 {
		t.Errorf("expected 1 rejected line, got %v", rejected)
	}
}
