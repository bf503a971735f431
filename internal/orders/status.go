package orders

import "strings"

// Production order status codes used by the Oseon API.
const (
	StatusCodeInvalid   = 0
	StatusCodeValid     = 10
	StatusCodePending   = 20
	StatusCodeReleased  = 30
	StatusCodeStarted   = 40
	StatusCodeFinished  = 90
	StatusCodeCompleted = 95
)

var productionStatusLabels = map[int]string{
	StatusCodeInvalid:   "INVALID",
	StatusCodeValid:     "VALID",
	StatusCodePending:   "PENDING",
	StatusCodeReleased:  "RELEASED",
	StatusCodeStarted:   "STARTED",
	StatusCodeFinished:  "FINISHED",
	StatusCodeCompleted: "COMPLETED",
}

// ProductionStatusLabel maps an integer status code to its name.
// Unknown codes keep their numeric form via the empty string.
func ProductionStatusLabel(code int) string {
	return productionStatusLabels[code]
}

// StatusCategory buckets a status name into a business-meaningful group:
// NEWEST (pre-production), RELEASED (in production), COMPLETED
// (delivered/invoiced) or OTHER.
func StatusCategory(status string) string {
	switch strings.ToUpper(status) {
	case "INVALID", "VALID", "PENDING":
		return "NEWEST"
	case "RELEASED", "STARTED":
		return "RELEASED"
	case "COMPLETED", "DELIVERED", "INVOICED", "FINISHED":
		return "COMPLETED"
	default:
		return "OTHER"
	}
}

// IsActiveStatus reports whether a status name indicates in-progress work.
func IsActiveStatus(status string) bool {
	switch strings.ToUpper(status) {
	case "VALID", "PENDING", "RELEASED", "STARTED":
		return true
	default:
		return false
	}
}

// IsCompletedStatus reports whether a status name indicates completion.
func IsCompletedStatus(status string) bool {
	switch strings.ToUpper(status) {
	case "COMPLETED", "DELIVERED", "INVOICED", "FINISHED":
		return true
	default:
		return false
	}
}
