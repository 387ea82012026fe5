package build

import "errors"

// ErrAssetsFailed is wrapped into the error Run returns in strict mode when
// at least one asset failed to sync.
var ErrAssetsFailed = errors.New("pagebuild: asset sync failed")
