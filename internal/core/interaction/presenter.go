package interaction

// Presenter receives presentation updates from an Interactable. Widgets,
// debug overlays and telemetry feeds implement it.
type Presenter interface {
	SetState(State)
	// SetRemainingProgress receives a value clamped to [0, 1]; 1 means the
	// full period is still ahead.
	SetRemainingProgress(float64)
	Show()
	Hide()
	SetHighlight(bool)
}

type nopPresenter struct{}

func (nopPresenter) SetState(State)               {}
func (nopPresenter) SetRemainingProgress(float64) {}
func (nopPresenter) Show()                        {}
func (nopPresenter) Hide()                        {}
func (nopPresenter) SetHighlight(bool)            {}
