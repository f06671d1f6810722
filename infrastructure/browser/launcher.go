package browser

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
	"practice_automation/infrastructure/browser/simulated"
)

// NewLauncher - returns the launcher for backend
func NewLauncher(backend entities.Backend, logger *logrus.Logger) (interfaces.Launcher, error) {
	switch backend {
	case entities.BackendPlaywright, "":
		return NewPlaywrightLauncher(logger), nil
	case entities.BackendSelenium:
		return NewSeleniumLauncher(logger), nil
	case entities.BackendSimulated:
		return simulated.NewLauncher(), nil
	}
	return nil, entities.NewEnvironmentError("launcher", fmt.Errorf("unknown backend %q", backend))
}
