package interfaces

import "practice_automation/domain/entities"

// ReportStore persists run reports
type ReportStore interface {
	// SaveReport stores a finished run
	SaveReport(report entities.RunReport) error

	// LoadReports returns stored runs, oldest first
	LoadReports() ([]entities.RunReport, error)
}
