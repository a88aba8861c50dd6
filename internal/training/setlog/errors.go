package setlog

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrDayLoad         = errors.New("training day load failed")
	ErrHalted          = errors.New("training day halted")
	ErrNotLoaded       = errors.New("training day not loaded")
	ErrUnknownExercise = errors.New("unknown exercise")
	ErrCommitInFlight  = errors.New("commit already in flight")
	// ErrDayEnded halts an engine still in use after its local day is over.
	ErrDayEnded = errors.New("local training day ended")
	// ErrStale means the records could not be refetched after a successful
	// mutation. The view keeps the last applied records until Refresh.
	ErrStale = errors.New("training day view is stale")
)
