// Package saves reads and writes saved games.
//
// A save is a [SavedGame] serialised as a compact JSON object with sorted
// keys. A SHA-256 digest of those bytes is attached as a base64 "hash"
// member, and the result is gzip-compressed into a .usg file. Loading
// reverses the steps and rejects the save when anything does not check out:
//
//   - a missing or mismatched hash, missing vertices, dangling or
//     duplicate connections, or unreadable data yield CORRUPT_SAVE
//   - a correctly signed save with a version newer than [CurrentVersion]
//     yields UNSUPPORTED_VERSION
//
// Stored intersection and vertex counts are informational only: a loaded
// level always recomputes them from the positions.
//
//	sg := saves.Capture(session)
//	if err := saves.SaveFile(path, sg); err != nil {
//		return err
//	}
//	loaded, err := saves.LoadFile(path)
package saves
