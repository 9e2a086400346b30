// Package translation drives the chunked multi-turn exchange that translates
// a whole SRT document with a chat model.
//
// A single request cannot reliably translate an arbitrarily long document, so
// the engine asks the model for a fixed batch of cues per turn. The model
// signals NEXT when more cues remain and END when it is done; the engine then
// replies CONTINUE and resends the whole conversation. Non-empty chunks are
// joined with a blank line in turn order.
//
// Two reply protocols are supported:
//
//   - structured (default): every reply is a JSON record {"text","command"}.
//     The command must be exactly NEXT or END. Malformed JSON or any other
//     command, including case variants, fails the translation with
//     services.ErrProtocolViolation.
//   - marker: free text ending in a NEXT or END line. Only trailing markers
//     count; a NEXT or END inside the translated text is treated as text.
//     A reply without a trailing marker ends the exchange early and whatever
//     was collected is returned.
//
// The exchange is bounded by MaxIterations turns. Reaching the ceiling ends
// the loop the same way a marker-less reply does. Provider failures abort the
// whole translation; nothing partial is returned with an error.
package translation
