package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
)

const reportFilePrefix = "run-"

type reportStore struct {
	dir string
}

// DefaultReportDir - returns ~/.practice_automation/reports
func DefaultReportDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".practice_automation", "reports")
}

// NewReportStore - creates a JSON report store rooted at dir
func NewReportStore(dir string) (interfaces.ReportStore, error) {
	if dir == "" {
		dir = DefaultReportDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &reportStore{dir: dir}, nil
}

// SaveReport - writes report to run-<started>-<id>.json
func (s *reportStore) SaveReport(report entities.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s%s-%s.json", reportFilePrefix, report.StartedAt.UTC().Format("20060102T150405"), report.ID)
	return os.WriteFile(filepath.Join(s.dir, name), data, 0644)
}

// LoadReports - loads every stored report, oldest first
func (s *reportStore) LoadReports() ([]entities.RunReport, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.RunReport{}, nil
		}
		return nil, err
	}

	reports := make([]entities.RunReport, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), reportFilePrefix) || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		var report entities.RunReport
		if err := json.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", entry.Name(), err)
		}
		reports = append(reports, report)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].StartedAt.Before(reports[j].StartedAt)
	})
	return reports, nil
}
