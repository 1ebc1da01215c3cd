package interaction

import "time"

// Event types published on an Interactable's bus.
const (
	EventInteractorFound       = "interactor.found"
	EventInteractorLost        = "interactor.lost"
	EventInteractionStarted    = "interaction.started"
	EventInteractionStopped    = "interaction.stopped"
	EventInteractionCompleted  = "interaction.completed"
	EventInteractionFailed     = "interaction.failed"
	EventInteractionCanceled   = "interaction.canceled"
	EventStateChanged          = "interactable.state_changed"
	EventCollisionShapeAdded   = "collision.shape_added"
	EventCollisionShapeRemoved = "collision.shape_removed"
	EventHoverBegan            = "hover.began"
	EventHoverEnded            = "hover.ended"
)

// Event types published on an Interactor's bus.
const (
	EventInteractableFound  = "interactable.found"
	EventInteractableLost   = "interactable.lost"
	EventInteractableTraced = "interactable.traced"
	EventKeyPressed         = "interactor.key_pressed"
	EventKeyReleased        = "interactor.key_released"
	EventTypeChanged        = "interactor.type_changed"
)

// InteractorPayload accompanies interactor.found and interactor.lost.
type InteractorPayload struct {
	Interactor ID             `json:"interactor"`
	Type       InteractorType `json:"type"`
}

// InteractionPayload accompanies the interaction.* events.
type InteractionPayload struct {
	Kind       Kind          `json:"kind"`
	Interactor ID            `json:"interactor,omitempty"`
	Elapsed    time.Duration `json:"elapsed"`
	Cycle      int           `json:"cycle,omitempty"`
	Presses    int           `json:"presses,omitempty"`
}

type StateChangedPayload struct {
	From State `json:"from"`
	To   State `json:"to"`
}

// VolumePayload accompanies collision shape and hover events.
type VolumePayload struct {
	Volume string `json:"volume"`
}

// TargetPayload accompanies interactable.found, interactable.lost and
// interactable.traced.
type TargetPayload struct {
	Interactable ID `json:"interactable"`
}

type KeyPayload struct {
	At time.Duration `json:"at"`
}

type TypeChangedPayload struct {
	From InteractorType `json:"from"`
	To   InteractorType `json:"to"`
}
