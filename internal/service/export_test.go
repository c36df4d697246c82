package service

import "time"

// SetNow fixes the enricher's clock so tests can assert exact forecast dates
// without racing a real midnight boundary.
func (e *Enricher) SetNow(now func() time.Time) { e.now = now }
