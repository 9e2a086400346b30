// Package subtitles holds the SRT text helpers shared by transcription,
// translation, editing, and playback: cue parsing and formatting, rendering
// timed segments into SRT, and the SRT to WebVTT conversion served to players.
//
// Everything here is pure string work; no function touches the filesystem.
package subtitles
