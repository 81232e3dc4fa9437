// Package ui renders the conversion transcript and asks the user for input.
//
// [Transcript] turns the [tasks.ProgressUpdate] stream of a conversion into the familiar
// marker lines ([*] searching, [+] found, [!] uncertain, [-] not found) and drives a
// progress bar while videos are inserted.
//
// [Prompter] abstracts the two questions the converter asks: the playlist reference when none
// was given and the final y/n confirmation. [TerminalPrompter] implements them with bubbletea
// models built on bubbles/textinput and bubbles/key; [LinePrompter] reads plain lines when
// stdin is not a terminal.
package ui
