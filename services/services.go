package services

// Config carries service-level settings resolved from the environment.
type Config struct {
	OllamaURL   string
	OllamaModel string
}

// Services holds all service instances
type Services struct {
	Timeline TimelineService
	Export   ExportService
	Import   ImportService
	Analysis AnalysisService
}

// NewServices creates and initializes all service instances
func NewServices(cfg Config) *Services {
	timeline := NewTimelineService()
	return &Services{
		Timeline: timeline,
		Export:   NewExportService(),
		Import:   NewImportService(timeline),
		Analysis: NewAnalysisService(cfg.OllamaURL, cfg.OllamaModel),
	}
}
