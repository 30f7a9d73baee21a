// Package local implements the dialog's outside effects on the machine the
// process runs on: speech through an installed text-to-speech binary, the
// terminal bell as sound cue, a file copy for the resume download and an
// anchor list standing in for the host page.
package local
