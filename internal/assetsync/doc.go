// Package assetsync copies static assets into the output tree, skipping any
// destination whose modification time is not earlier than its source.
//
// The decision is based on modification times only. Two files with equal
// content but different mtimes are not deduplicated, and a destination that
// is newer than its source is treated as up to date whatever its content.
package assetsync
