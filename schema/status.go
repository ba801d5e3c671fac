package schema

// StoreStatus reports the shape and health of the snapshot store.
type StoreStatus struct {
	Backend       DatabaseBackend `json:"backend"`
	Location      string          `json:"location"` // File path (sqlite) or DSN host (server backends)
	SnapshotCount int             `json:"snapshot_count"`
	ReportCount   int             `json:"report_count"`
}
