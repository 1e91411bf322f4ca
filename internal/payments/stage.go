package payments

// Stage is a step of one payment attempt.
type Stage string

const (
	StageValidating Stage = "validating"
	StagePricing    Stage = "pricing"
	StageDebiting   Stage = "debiting"
	StageRecording  Stage = "recording"
	StageNotifying  Stage = "notifying"
	StageCompleted  Stage = "completed"
	StageFailed     Stage = "failed"
)

var allowedStages = map[Stage][]Stage{
	StageValidating: {StagePricing, StageFailed},
	StagePricing:    {StageDebiting, StageFailed},
	StageDebiting:   {StageRecording, StageFailed},
	StageRecording:  {StageNotifying, StageFailed},
	StageNotifying:  {StageCompleted, StageFailed},
}

// CanAdvance reports whether an attempt may move from one stage to another.
// Completed and Failed are terminal.
func CanAdvance(from, to Stage) bool {
	for _, next := range allowedStages[from] {
		if next == to {
			return true
		}
	}
	return false
}
