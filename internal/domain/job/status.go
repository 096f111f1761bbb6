package job

type Status string

const (
	StatusOpen       Status = "open"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusVerified   Status = "verified"
	StatusPaid       Status = "paid"
)

// validTransitions is the forward lifecycle of a job. Force-status is the
// only way around it.
var validTransitions = map[Status][]Status{
	StatusOpen:       {StatusAssigned},
	StatusAssigned:   {StatusInProgress},
	StatusInProgress: {StatusCompleted, StatusVerified},
	StatusCompleted:  {StatusVerified},
	StatusVerified:   {StatusPaid},
}

// ownerSettable are the targets an owner may set through a field update.
// Assignment, verification and payment carry side effects and only happen
// through accept, verify and approve.
var ownerSettable = map[Status]bool{
	StatusInProgress: true,
	StatusCompleted:  true,
}

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusAssigned, StatusInProgress, StatusCompleted, StatusVerified, StatusPaid:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next follows the lifecycle.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Finished reports whether the work has been completed, so no further proof
// may be submitted.
func (s Status) Finished() bool {
	return s == StatusCompleted || s == StatusVerified || s == StatusPaid
}

// Active reports whether the job is assigned and the work is underway.
func (s Status) Active() bool {
	return s == StatusAssigned || s == StatusInProgress
}
