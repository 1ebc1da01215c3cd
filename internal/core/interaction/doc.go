// Package interaction couples interactors (acting entities such as a player
// character) with interactables (world objects offering a timed interaction).
//
// An Interactable runs a single state machine whose legal transitions are
// fixed by a table; interaction variants (press, hold, mash, automatic, hover)
// plug into it as a Strategy. Interactor and Interactable reference each other
// only by ID through a Registry, and talk through their event buses: every
// subscription an interactable makes on an interactor when binding to it is
// cancelled when the binding is unwound.
//
// All operations run on one logical thread: the code advancing the timer
// Scheduler and delivering collision callbacks. Nothing here blocks.
package interaction
