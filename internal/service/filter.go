package service

import (
	"strconv"
	"strings"
	"sync"

	"github.com/noah-isme/cse-resource-hub/internal/models"
)

// AllSemesters is the raw selection meaning "no semester filter". It is
// never forwarded to the backend.
const AllSemesters = "all"

// FilterDeriver turns raw UI inputs into a normalized Filter. Derivation
// is pure, and the last result is memoized on the two raw inputs so that
// identical inputs yield the same *Filter pointer. Re-deriving without a
// genuine input change therefore never looks like a filter change to the
// query layer.
type FilterDeriver struct {
	mu          sync.Mutex
	rawSemester string
	rawSubject  string
	cached      *models.Filter
}

// NewFilterDeriver returns an empty deriver.
func NewFilterDeriver() *FilterDeriver {
	return &FilterDeriver{}
}

// Derive computes the filter for a raw semester selection ("all" or a
// digit 1-8) and raw subject text. Semester is included only for a valid
// non-"all" selection; subject only when non-empty after trimming, used
// verbatim with case preserved.
func (d *FilterDeriver) Derive(rawSemester, rawSubject string) *models.Filter {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cached != nil && d.rawSemester == rawSemester && d.rawSubject == rawSubject {
		return d.cached
	}

	filter := &models.Filter{}
	if rawSemester != AllSemesters {
		if sem, err := strconv.Atoi(rawSemester); err == nil && sem >= 1 && sem <= 8 {
			filter.Semester = &sem
		}
	}
	if subject := strings.TrimSpace(rawSubject); subject != "" {
		filter.Subject = subject
	}

	d.rawSemester = rawSemester
	d.rawSubject = rawSubject
	d.cached = filter
	return filter
}
