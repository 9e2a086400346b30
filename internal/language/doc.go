// Package language normalizes language codes and names to the English display
// names used as subtitle track languages.
package language
