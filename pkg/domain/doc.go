/*
Package domain contains the core models of the Nova dialog engine.

It defines the fixed graph of named steps, the options attached to each step, the
actions an option can trigger and the session state (current step, history stack and
engagement flag). The package is kept pure, free of I/O and timers, so that the
engine and every adapter share one vocabulary.

# Key Entities

  - Step: a named node of the dialog with display text and ordered options.
  - Option: a selectable button carrying a label, an icon and an Action.
  - Action: a tagged variant (go to step, go back, download, navigate, feedback, dismiss).
  - State: the per-session snapshot owned by the engine.
*/
package domain
