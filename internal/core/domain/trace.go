package domain

// TraceResult is the top-level frame of a callTracer trace.
type TraceResult struct {
	Type         string  `json:"type"`
	From         string  `json:"from"`
	To           string  `json:"to"`
	Error        *string `json:"error"`
	RevertReason *string `json:"revertReason"`
}
