package repositories

// Repositories struct holds all repository interfaces
type Repositories struct {
	Session SessionRepository
	Archive ArchiveRepository
	Audit   AuditRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(logsDir string) *Repositories {
	return &Repositories{
		Session: NewSessionRepository(),
		Archive: NewArchiveRepository(logsDir),
		Audit:   NewAuditRepository(logsDir),
	}
}
