package checker

import "iptv-checker/playlist"

// Status is the terminal classification of one channel's validation.
type Status int

const (
	StatusWorking Status = iota
	StatusFailed
	StatusTimedOut
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusWorking:
		return "working"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed out"
	case StatusSkipped:
		return "skipped"
	}
	return "unknown"
}

// Outcome is a pure value produced once per distinct URL per run and never
// mutated afterwards.
type Outcome struct {
	Status Status
	Reason string
}

func Working() Outcome {
	return Outcome{Status: StatusWorking}
}

func Failed(reason string) Outcome {
	return Outcome{Status: StatusFailed, Reason: reason}
}

func TimedOut() Outcome {
	return Outcome{Status: StatusTimedOut, Reason: "Decode probe timeout"}
}

func Skipped() Outcome {
	return Outcome{Status: StatusSkipped, Reason: "Took too long"}
}

// Result pairs a channel with its settled outcome.
type Result struct {
	Channel *playlist.Channel
	Outcome Outcome
}
