package email

const (
	subjectLeadReceived     = "You have a new lead"
	subjectAnalysisReadyFmt = "Photo analysis ready for %s"
)
