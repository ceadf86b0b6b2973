package quota

import "errors"

// ErrQuotaExceeded is returned when a user has no chat messages left for the current month.
var ErrQuotaExceeded = errors.New("chat quota exceeded")

// DefaultMonthlyMessages is the allowance used when none is configured.
const DefaultMonthlyMessages = 100

const monthLayout = "2006-01"
