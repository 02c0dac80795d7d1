package health

type Status string

const (
	StatusUp   Status = "UP"
	StatusDown Status = "DOWN"
)

// Indicator checks one component of the application.
type Indicator struct {
	Name  string
	Check func() error
}

// Result is the outcome of a single indicator.
type Result struct {
	Status Status  `json:"status"`
	Error  *string `json:"error,omitempty"`
}

// Run runs every indicator and returns the overall status with the result per component.
func Run(indicators []*Indicator) (Status, map[string]Result) {
	status := StatusUp
	results := make(map[string]Result, len(indicators))
	for _, indicator := range indicators {
		res := Result{Status: StatusUp}
		if err := indicator.Check(); err != nil {
			status = StatusDown
			msg := err.Error()
			res.Status = StatusDown
			res.Error = &msg
		}
		results[indicator.Name] = res
	}
	return status, results
}
