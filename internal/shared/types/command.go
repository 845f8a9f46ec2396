package types

// Command describes one command of the surface exposed to the embedded application
type Command struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a command parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Result represents a command response. Data is null for commands that
// only acknowledge, and for an absent secure value.
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *string     `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// Success builds a successful result
func Success(data interface{}) *Result {
	return &Result{Success: true, Data: data}
}

// Failure builds a failed result with a stable machine-readable code
func Failure(code string, err error) *Result {
	msg := code
	if err != nil {
		msg = err.Error()
	}
	return &Result{Success: false, Error: &msg, Code: code}
}
