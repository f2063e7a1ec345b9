package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
	// AvailableClients is lifted to the top level on client-resolution
	// failures so callers can self-correct without digging into details.
	AvailableClients []string `json:"available_clients,omitempty"`
}
