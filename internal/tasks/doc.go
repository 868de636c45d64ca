// Package tasks moves playlists from the source catalog to the destination catalog.
//
// # Matching
//
// A [Matcher] searches the destination in up to three passes:
//
//  1. Exact: "<title> artist:<primary artist>", limit 1
//  2. Transliterated: the same query with the artist rendered in Latin script, limit 1
//     (skipped when transliteration leaves the artist unchanged)
//  3. Broad: the title alone, limit 5
//
// A hit on pass 1 or 2 is definitive. Broad results go to a [Resolver].
//
// # Disambiguation
//
// [PromptResolver] shows the broad page as a table and reads a choice: a candidate number,
// 0 to skip, N for the next page, or S to skip every remaining inconclusive track of the
// playlist. [SkipResolver] and [FirstCandidateResolver] are the headless policies.
//
// # Transfers
//
// [Engine.Run] fetches each selected playlist, creates a private destination playlist,
// matches every track and adds the matches in chunks of at most 100. Failures of one
// playlist never stop the run. Unmatched tracks are written once per run by the [Reporter],
// and completed transfers are recorded through the optional [Recorder].
//
// Progress is reported synchronously through [Engine.Progress].
package tasks
