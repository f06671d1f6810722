package browser

import (
	"strings"

	"practice_automation/domain/entities"
)

// firefoxDownloadPrefs make Firefox save the configured MIME types straight
// into the download directory without asking.
func firefoxDownloadPrefs(cfg entities.SessionConfig) map[string]interface{} {
	if cfg.DownloadDir == "" {
		return nil
	}
	mimeTypes := cfg.AutoSaveMIMETypes
	if len(mimeTypes) == 0 {
		mimeTypes = entities.DefaultAutoSaveMIMETypes
	}
	return map[string]interface{}{
		"browser.download.folderList":               2,
		"browser.download.manager.showWhenStarting": false,
		"browser.download.dir":                      cfg.DownloadDir,
		"browser.helperApps.neverAsk.saveToDisk":    strings.Join(mimeTypes, ","),
		"browser.download.useDownloadDir":           true,
		"pdfjs.disabled":                            true,
	}
}

// chromeDownloadPrefs are the Chrome equivalent of firefoxDownloadPrefs.
func chromeDownloadPrefs(cfg entities.SessionConfig) map[string]interface{} {
	if cfg.DownloadDir == "" {
		return nil
	}
	return map[string]interface{}{
		"download.default_directory":   cfg.DownloadDir,
		"download.prompt_for_download": false,
		"download.directory_upgrade":   true,
		"safebrowsing.enabled":         true,
	}
}

// isClosedError reports errors a browser returns when it is already gone.
func isClosedError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "closed") || strings.Contains(msg, "target closed") ||
		strings.Contains(msg, "invalid session id") || strings.Contains(msg, "no such window")
}

// functionBody wraps a script written as a function body so it can be
// evaluated as an expression.
func functionBody(script string) string {
	return "() => {\n" + script + "\n}"
}
