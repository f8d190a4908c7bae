package domain

// Event describes a task window relative to its due date. Start is the
// number of days before the due date the window opens, End the number of
// days after it closes.
type Event struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Days  int    `json:"days" yaml:"days"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	// ResolvingForm is the form whose submission inside the window
	// resolves the task. Only used by legacy schedules.
	ResolvingForm string `json:"resolvingForm,omitempty" yaml:"resolvingForm,omitempty"`
}

// Schedule is a legacy named task schedule from the tasks settings.
type Schedule struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Events      []Event `json:"events,omitempty" yaml:"events,omitempty"`
}

type TaskSettings struct {
	Schedules []Schedule `json:"schedules,omitempty" yaml:"schedules,omitempty"`
}

// Settings is the configuration the rules library is constructed with.
type Settings struct {
	Tasks TaskSettings `json:"tasks" yaml:"tasks"`
}
