package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSVSemicolonLatin1(t *testing.T) {
	// "não" in ISO 8859-1: e3 is ã.
	raw := []byte("NATJUR;ADERENCIA\n206-2;sim\n213-5;n\xe3o\n")
	path := writeFile(t, t.TempDir(), "regras_nj.csv", raw)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Columns) != 2 || table.Columns[0] != "NATJUR" {
		t.Fatalf("columns: %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows: %d", len(table.Rows))
	}
	if table.Rows[1]["ADERENCIA"] != "não" {
		t.Errorf("latin-1 repair failed: %q", table.Rows[1]["ADERENCIA"])
	}
}

func TestLoadCSVCommaUTF8(t *testing.T) {
	raw := []byte("CNAE,PERMITIDO\n47.11-3-02,SIM\n")
	path := writeFile(t, t.TempDir(), "regras_cnae.csv", raw)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if table.Rows[0]["CNAE"] != "47.11-3-02" || table.Rows[0]["PERMITIDO"] != "SIM" {
		t.Errorf("row: %v", table.Rows[0])
	}
}

func TestLoadJSON(t *testing.T) {
	raw := []byte(`[{"CNPJ":"11.222.333/0001-44","RESULTADO":"Aderente por regime especial"},{"CNPJ":"99.888.777/0001-66","RESULTADO":null}]`)
	path := writeFile(t, t.TempDir(), "regras_cnpj.json", raw)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows: %d", len(table.Rows))
	}
	if table.Rows[0]["RESULTADO"] != "Aderente por regime especial" {
		t.Errorf("row 0: %v", table.Rows[0])
	}
	if table.Rows[1]["RESULTADO"] != "" {
		t.Errorf("null cell must load as empty, got %q", table.Rows[1]["RESULTADO"])
	}
}

func TestLoadXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regras_cnae.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetCellValue(sheet, "A1", "CNAE")
	_ = f.SetCellValue(sheet, "B1", "PERMITIDO")
	_ = f.SetCellValue(sheet, "A2", "62.01-5-01")
	_ = f.SetCellValue(sheet, "B2", "SIM")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	table, err := LoadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows: %d", len(table.Rows))
	}
	if table.Rows[0]["CNAE"] != "62.01-5-01" || table.Rows[0]["PERMITIDO"] != "SIM" {
		t.Errorf("row: %v", table.Rows[0])
	}
}

func TestLoadTableUnsupportedFormat(t *testing.T) {
	if _, err := LoadTable("regras.parquet"); err == nil {
		t.Fatal("expected an error for unsupported format")
	}
}

func TestLoadRulesetFromManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nj.csv", []byte("NATJUR;ADERENCIA\n206-2;SIM\n"))
	writeFile(t, dir, "cnae.csv", []byte("CNAE;PERMITIDO;OBS\n47.21-1-02;SIM;padarias\n"))
	writeFile(t, dir, "cnpj.csv", []byte("CNPJ;RESULTADO\n11.222.333/0001-44;Aderente por regime especial\n"))

	manifest := `
synonyms: [SIM, S]
nature:
  path: nj.csv
  columns: {code: natjur, rule: aderencia}
activity:
  path: cnae.csv
  columns: {code: cnae, rule: permitido, note: obs}
exception:
  path: cnpj.csv
  columns: {tax_id: cnpj, result: resultado}
`
	path := writeFile(t, dir, "ruleset.yaml", []byte(manifest))

	rs, err := LoadRuleset(path)
	if err != nil {
		t.Fatal(err)
	}
	if rule, _, found := rs.Nature.Lookup("2062"); !found || !rs.Positive(rule) {
		t.Errorf("nature lookup: rule=%q found=%t", rule, found)
	}
	if _, note, found := rs.Activity.Lookup("47.21-1-02"); !found || note != "padarias" {
		t.Errorf("activity note lookup: note=%q found=%t", note, found)
	}
	if result, _, found := rs.Exception.Lookup("11222333000144"); !found || result != "Aderente por regime especial" {
		t.Errorf("exception lookup: result=%q found=%t", result, found)
	}
	if rs.Positive("PERMITIDO") {
		t.Error("manifest narrowed the synonym set; PERMITIDO must be negative")
	}
}

func TestLoadManifestRejectsIncompleteMapping(t *testing.T) {
	dir := t.TempDir()
	manifest := `
nature:
  path: nj.csv
  columns: {code: natjur}
activity:
  path: cnae.csv
  columns: {code: cnae, rule: permitido}
exception:
  path: cnpj.csv
  columns: {tax_id: cnpj, result: resultado}
`
	path := writeFile(t, dir, "ruleset.yaml", []byte(manifest))
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("manifest without a rule column mapping must fail schema validation")
	}
}

func TestStoreKeepsOldRulesetOnFailedReload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nj.csv", []byte("NATJUR;ADERENCIA\n206-2;SIM\n"))
	writeFile(t, dir, "cnae.csv", []byte("CNAE;PERMITIDO\n47.21-1-02;SIM\n"))
	writeFile(t, dir, "cnpj.csv", []byte("CNPJ;RESULTADO\n11.222.333/0001-44;ok\n"))
	manifest := `
nature: {path: nj.csv, columns: {code: NATJUR, rule: ADERENCIA}}
activity: {path: cnae.csv, columns: {code: CNAE, rule: PERMITIDO}}
exception: {path: cnpj.csv, columns: {tax_id: CNPJ, result: RESULTADO}}
`
	path := writeFile(t, dir, "ruleset.yaml", []byte(manifest))

	store := NewStore(path, nil)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	first := store.Current()

	// Break the manifest and reload; the old ruleset must survive.
	writeFile(t, dir, "ruleset.yaml", []byte("nature: {}"))
	if err := store.Load(); err == nil {
		t.Fatal("expected reload failure")
	}
	if store.Current() != first {
		t.Error("failed reload must not replace the cached ruleset")
	}
	if !store.Status().Loaded {
		t.Error("status must still report loaded")
	}
}
