/*
Package runtime implements the Nova dialog engine.

The engine is a stack-based navigation state machine over a fixed registry of
steps. GoToStep pushes the step being left, GoBack pops it, and every other
option action is terminal (download, navigate, feedback, dismiss).

Visible effects are deferred through a ports.Scheduler: the typing reveal, the
option delay and the feedback auto close. Each visible change starts a new
render generation and deferred callbacks from an older generation are dropped,
so a quick sequence of transitions never mixes stale text or buttons into the
current render.
*/
package runtime
