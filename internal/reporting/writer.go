package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Output file names.
const (
	FileLedger            = "ledger.json"
	FileLedgerByTimestamp = "ledger-order-by-timestamp.json"
	FileLedgerByAmount    = "ledger-order-by-amount.json"
	FileContributions     = "contributions-aggregated.json"
	FileContributionsCSV  = "contributions-aggregated.csv"
	FileLedgerCSV         = "ledger.csv"
	FileReport            = "LEDGER_REPORT.md"
)

// WriteAll writes every artifact of r into dir and returns the written paths.
func WriteAll(dir string, r *Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	jsonFiles := []struct {
		name string
		data interface{}
	}{
		{FileLedger, r.Entries},
		{FileLedgerByTimestamp, r.ByTimestamp},
		{FileLedgerByAmount, r.ByAmount},
		{FileContributions, r.Contributions},
	}
	for _, f := range jsonFiles {
		data, err := json.MarshalIndent(f.data, "", "  ")
		if err != nil {
			return written, fmt.Errorf("marshal %s: %w", f.name, err)
		}
		if err := write(f.name, data); err != nil {
			return written, err
		}
	}

	if err := write(FileContributionsCSV, []byte(RenderContributionsCSV(r.Contributions))); err != nil {
		return written, err
	}
	if err := write(FileLedgerCSV, []byte(RenderEntriesCSV(r.Entries))); err != nil {
		return written, err
	}
	if err := write(FileReport, []byte(RenderMarkdown(r))); err != nil {
		return written, err
	}

	return written, nil
}
